package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"identity-service/internal/auth"
	"identity-service/internal/logger"
)

func (h *Handler) OAuthInit(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown provider"})
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL())
}

func (h *Handler) OAuthCallback(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown provider"})
		return
	}

	var profile *auth.Profile
	if h.mockProfile != nil {
		profile = h.mockProfile(c)
	}

	if profile == nil {
		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No code provided"})
			return
		}

		profile, err = p.Exchange(c.Request.Context(), code)
		if err != nil {
			logger.Error("provider exchange failed", map[string]any{
				"provider": p.Name(),
				"error":    err.Error(),
			})
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Authentication failed"})
			return
		}
	}

	pair, err := h.service.OAuthLogin(c.Request.Context(), p.Name(), profile)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// MockProfileFromQuery builds a profile from mock_* query parameters.
// Wired by the app only when not in production mode.
func MockProfileFromQuery(c *gin.Context) *auth.Profile {
	email := c.Query("mock_email")
	if email == "" {
		return nil
	}

	name := c.Query("mock_name")
	if name == "" {
		name = "Mock User"
	}
	id := c.Query("mock_id")
	if id == "" {
		id = "mock_id"
	}

	return &auth.Profile{Email: email, Name: name, SubjectID: id}
}
