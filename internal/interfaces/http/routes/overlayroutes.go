// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/adbeam/adbeam/internal/interfaces/http/handlers"
)

// OverlayRouteConfig contains dependencies for overlay-facing routes.
type OverlayRouteConfig struct {
	EventHandler   *handlers.EventHandler
	OverlayHandler *handlers.OverlayHandler
}

// SetupOverlayRoutes configures routes consumed by overlay clients. Both
// authenticate with the overlay key, not an operator token.
func SetupOverlayRoutes(engine *gin.Engine, cfg *OverlayRouteConfig) {
	api := engine.Group("/api/v1")
	{
		// POST /api/v1/events (authenticated by X-Overlay-Key header)
		api.POST("/events", cfg.EventHandler.Ingest)
	}

	ws := engine.Group("/ws")
	{
		// GET /ws/overlay?key=<overlay key>
		ws.GET("/overlay", cfg.OverlayHandler.OverlayWS)
	}
}
