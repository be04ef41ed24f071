package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/adbeam/adbeam/internal/interfaces/http/handlers"
	"github.com/adbeam/adbeam/internal/interfaces/http/middleware"
)

// OperatorRouteConfig contains dependencies for operator-facing routes.
type OperatorRouteConfig struct {
	DeliveryHandler   *handlers.DeliveryHandler
	CredentialHandler *handlers.CredentialHandler
	DashboardHandler  *handlers.DashboardHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// SetupOperatorRoutes configures routes for operators and automation.
// Capability checks happen inside the use cases; the middleware only
// establishes the actor identity.
func SetupOperatorRoutes(engine *gin.Engine, cfg *OperatorRouteConfig) {
	api := engine.Group("/api/v1")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// POST /api/v1/deliveries
		api.POST("/deliveries", cfg.DeliveryHandler.Trigger)

		// POST /api/v1/credentials/rotate
		api.POST("/credentials/rotate", cfg.CredentialHandler.Rotate)

		// GET /api/v1/dashboard/stream
		api.GET("/dashboard/stream", cfg.DashboardHandler.Stream)
	}
}
