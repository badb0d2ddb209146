package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/marketlens/attribution-engine/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Tracking endpoints (open; called by the browser snippet)
		v1.POST("/track/session", handler.TrackSession)
		v1.POST("/track/pageview", handler.TrackPageview)
		v1.POST("/track/identify", handler.Identify)

		// Audit report (internal dashboard, requires authentication)
		v1.GET("/audit/report", middleware.Auth(authCfg), handler.AuditReport)
	}
}
