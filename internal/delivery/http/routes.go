package http

import (
	"github.com/gin-gonic/gin"

	"github.com/zaqa/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/healthz", handler.HealthCheck)
	router.POST("/extract_order", handler.ExtractOrder)

	match := router.Group("/match")
	{
		match.POST("/skus", handler.MatchSKUs)
	}

	return router
}
