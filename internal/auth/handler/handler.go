package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"identity-service/internal/auth"
	"identity-service/internal/auth/provider"
	"identity-service/internal/logger"
	"identity-service/internal/store"
)

// MockProfileFunc extracts a pre-resolved profile from the request,
// bypassing the provider exchange. It is wired only outside production
// mode; in production the handler holds nil and no bypass path exists.
type MockProfileFunc func(c *gin.Context) *auth.Profile

type Handler struct {
	service     *auth.Service
	providers   *provider.Registry
	mockProfile MockProfileFunc
}

func NewHandler(
	service *auth.Service,
	registry *provider.Registry,
	mockProfile MockProfileFunc,
) *Handler {
	return &Handler{
		service:     service,
		providers:   registry,
		mockProfile: mockProfile,
	}
}

// RegisterRoutes mounts the auth endpoints. The rate limiter applies to
// the two password endpoints only.
func (h *Handler) RegisterRoutes(r *gin.Engine, limiter gin.HandlerFunc) {
	r.POST("/auth/register", limiter, h.Register)
	r.POST("/auth/login", limiter, h.Login)
	r.GET("/auth/:provider/", h.OAuthInit)
	r.GET("/auth/:provider/callback", h.OAuthCallback)
	r.POST("/auth/refresh", h.Refresh)
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

// fail maps a service error to its HTTP outcome. Anything outside the
// taxonomy is a 500 with a generic message; details go to the log only.
func fail(c *gin.Context, err error) {
	var vErr *auth.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Reason})
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid refresh token"})
	case errors.Is(err, auth.ErrAccountNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
	case errors.Is(err, auth.ErrAuthenticationFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Authentication failed"})
	default:
		logger.Error("unhandled error", map[string]any{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}
