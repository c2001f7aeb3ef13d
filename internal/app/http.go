package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"identity-service/internal/auth"
	"identity-service/internal/auth/handler"
	"identity-service/internal/auth/linker"
	"identity-service/internal/auth/provider"
	"identity-service/internal/auth/provider/github"
	"identity-service/internal/auth/provider/google"
	"identity-service/internal/auth/token"
	"identity-service/internal/config"
	"identity-service/internal/logger"
	"identity-service/internal/middleware"
	"identity-service/internal/store"
	"identity-service/internal/user"
)

const (
	rateLimitMax    = 10
	rateLimitWindow = time.Minute
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	accountStore := store.NewPostgresStore(infra.DB)

	tokenService := token.NewService(token.Config{
		AccessSecret:  cfg.AccessTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshSecret: cfg.RefreshTokenSecret,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})

	registry := provider.NewRegistry(buildProviders(cfg)...)

	authService := auth.NewService(
		accountStore,
		tokenService,
		linker.New(accountStore),
	)

	// The mock-profile bypass only exists as a capability outside
	// production mode. In production nothing is wired, so no input can
	// reach a mock path.
	var mockProfile handler.MockProfileFunc
	if !cfg.Production() {
		mockProfile = handler.MockProfileFromQuery
		logger.Warn("oauth mock profiles enabled", map[string]any{
			"environment": cfg.Environment,
		})
	}

	authHandler := handler.NewHandler(authService, registry, mockProfile)
	userHandler := user.NewHandler(accountStore)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	var counter middleware.Counter
	if infra.Redis != nil {
		counter = &middleware.RedisCounter{Client: infra.Redis.Client}
	} else {
		counter = middleware.NewMemoryCounter()
	}
	limiter := middleware.RateLimit(counter, rateLimitMax, rateLimitWindow)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router, limiter)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	users := router.Group("/users")
	users.Use(middleware.GinRequireAuth(authMiddleware))
	userHandler.RegisterRoutes(users)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if infra.Redis != nil {
			_ = infra.Redis.Close()
		}
		return infra.DB.Close()
	}, nil
}

// buildProviders registers every provider whose credentials are
// configured; the rest are skipped so a partial configuration still
// boots.
func buildProviders(cfg config.Config) []provider.OAuthProvider {
	var providers []provider.OAuthProvider

	googleProvider, err := google.New(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.RedirectBaseURL+"/auth/google/callback",
	)
	if err != nil {
		logger.Warn("google provider not configured", map[string]any{"error": err.Error()})
	} else {
		providers = append(providers, googleProvider)
	}

	githubProvider, err := github.New(
		cfg.GitHubClientID,
		cfg.GitHubClientSecret,
		cfg.RedirectBaseURL+"/auth/github/callback",
	)
	if err != nil {
		logger.Warn("github provider not configured", map[string]any{"error": err.Error()})
	} else {
		providers = append(providers, githubProvider)
	}

	return providers
}
