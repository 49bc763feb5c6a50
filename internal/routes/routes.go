package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/maxari-shop/service-returns/internal/auth"
	"github.com/maxari-shop/service-returns/internal/handlers"
	"github.com/maxari-shop/service-returns/internal/middleware"
)

// RouteConfig holds configuration for routes
type RouteConfig struct {
	SearchHandler *handlers.SearchHandler
	ReturnHandler *handlers.ReturnHandler
	ConfigHandler *handlers.ConfigHandler
	AuthHandler   *handlers.AuthHandler
	JWTManager    *auth.JWTManager
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouteConfig) {
	// API v1 routes
	v1 := router.Group("/api/v1")

	// Public return flow (no auth - the resolution engine is the gate)
	returns := v1.Group("/returns")
	{
		returns.POST("/search-order", cfg.SearchHandler.SearchOrder)
		returns.POST("", cfg.ReturnHandler.CreateReturn)
		returns.GET("/:id/pdf", cfg.ReturnHandler.GetReturnPDF)
		returns.PATCH("/:id/documents", cfg.ReturnHandler.UpdateDocuments)
	}

	// Admin authentication
	adminAuth := v1.Group("/admin/auth")
	{
		adminAuth.POST("/register", cfg.AuthHandler.Register)
		adminAuth.POST("/login", cfg.AuthHandler.Login)
	}

	// Admin routes (require authentication)
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTManager))
	{
		admin.GET("/auth/check", cfg.AuthHandler.Check)
		admin.POST("/auth/logout", cfg.AuthHandler.Logout)

		adminReturns := admin.Group("/returns")
		{
			adminReturns.GET("", cfg.ReturnHandler.ListReturns)
			adminReturns.GET("/:id", cfg.ReturnHandler.GetReturn)
			adminReturns.GET("/:id/pdf", cfg.ReturnHandler.GetReturnPDF)
			adminReturns.PUT("/:id", cfg.ReturnHandler.UpdateReturn)
			adminReturns.PATCH("/:id/status", cfg.ReturnHandler.UpdateReturnStatus)
			adminReturns.DELETE("/:id", cfg.ReturnHandler.DeleteReturn)
		}

		adminConfig := admin.Group("/config")
		{
			adminConfig.GET("", cfg.ConfigHandler.GetConfig)
			adminConfig.PUT("", cfg.ConfigHandler.UpdateConfig)
			adminConfig.PUT("/excluded-skus", cfg.ConfigHandler.UpdateExcludedSKUs)
		}
	}
}
