package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"identity-service/internal/middleware"
	"identity-service/internal/store"
)

type Handler struct {
	store store.Store
}

func NewHandler(s store.Store) *Handler {
	return &Handler{store: s}
}

// RegisterRoutes mounts the user endpoints on an already-authenticated
// route group.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/me", h.Me)
	g.PATCH("/me", h.UpdateMe)
	g.GET("", middleware.RequireRole(store.RoleAdmin), h.List)
}

type accountResponse struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  store.Role `json:"role"`
}

func toAccountResponse(a *store.Account) accountResponse {
	return accountResponse{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

func (h *Handler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	account, err := h.store.AccountByID(c.Request.Context(), claims.AccountID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(account))
}

type updateRequest struct {
	Name string `json:"name"`
}

func (h *Handler) UpdateMe(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}

	account, err := h.store.UpdateAccountName(c.Request.Context(), claims.AccountID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(account))
}

func (h *Handler) List(c *gin.Context) {
	accounts, err := h.store.ListAccounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResponse(&accounts[i]))
	}

	c.JSON(http.StatusOK, out)
}
