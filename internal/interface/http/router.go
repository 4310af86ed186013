package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/admin"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, auth admin.Authenticator) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	logger := handler.logger
	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)
	router.NoRoute(handler.notFound)

	router.GET("/health", handler.Health)

	api := router.Group("/api")
	{
		api.POST("/insight", handler.Insight)
		api.GET("/insight/budget", handler.Budget)
		api.GET("/insight/history", handler.History)
	}

	adminAPI := api.Group("/admin")
	adminAPI.Use(adminAuthMiddleware(auth))
	{
		adminAPI.DELETE("/cache/:day/:lang", handler.PurgeCache)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
