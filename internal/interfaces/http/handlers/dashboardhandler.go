package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adbeam/adbeam/internal/infrastructure/services"
	"github.com/adbeam/adbeam/internal/interfaces/http/middleware"
	"github.com/adbeam/adbeam/internal/shared/authorization"
	"github.com/adbeam/adbeam/internal/shared/id"
	"github.com/adbeam/adbeam/internal/shared/logger"
	"github.com/adbeam/adbeam/internal/shared/utils"
)

const (
	// sseKeepaliveInterval is the interval for keepalive comments.
	sseKeepaliveInterval = 30 * time.Second

	// maxChannelFilters bounds the channels query parameter.
	maxChannelFilters = 100

	// maxChannelFilterLength bounds a single filter id.
	maxChannelFilterLength = 32
)

// DashboardHandler streams operator events over SSE.
type DashboardHandler struct {
	hub    *services.DashboardHub
	logger logger.Interface
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(hub *services.DashboardHub, log logger.Interface) *DashboardHandler {
	return &DashboardHandler{
		hub:    hub,
		logger: log,
	}
}

// Stream opens an SSE stream of overlay status, heartbeat and delivery
// events. Events before the connection are not replayed.
// GET /api/v1/dashboard/stream?channels=ch_a,ch_b
func (h *DashboardHandler) Stream(c *gin.Context) {
	actorID := middleware.ActorID(c)
	role := authorization.ParseRole(middleware.ActorRole(c))
	if err := authorization.RequireCapability(role, authorization.CapabilityWatchDashboard); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	connID := id.NewConnID()
	filters := h.parseChannelFilters(c)

	conn := h.hub.RegisterConn(connID, actorID, filters)
	if conn == nil {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many connections"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable Nginx buffering

	if _, err := c.Writer.WriteString(": connected\n\n"); err != nil {
		h.hub.UnregisterConn(connID)
		h.logger.Warn("dashboard SSE initial write error", "conn_id", connID, "error", err)
		return
	}
	c.Writer.Flush()

	h.runEventLoop(c, conn, connID, actorID)
}

// runEventLoop pumps hub events and keepalives until the client leaves.
func (h *DashboardHandler) runEventLoop(c *gin.Context, conn *services.DashboardConn, connID, actorID string) {
	keepAlive := time.NewTicker(sseKeepaliveInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()

	for {
		select {
		case <-ctx.Done():
			h.hub.UnregisterConn(connID)
			h.logger.Info("dashboard SSE connection closed by client",
				"conn_id", connID,
				"actor_id", actorID,
			)
			return

		case data, ok := <-conn.Send:
			if !ok {
				return
			}
			if _, err := c.Writer.Write(data); err != nil {
				h.hub.UnregisterConn(connID)
				h.logger.Warn("dashboard SSE write error", "conn_id", connID, "error", err)
				return
			}
			c.Writer.Flush()

		case <-keepAlive.C:
			if _, err := c.Writer.WriteString(": keepalive\n\n"); err != nil {
				h.hub.UnregisterConn(connID)
				h.logger.Warn("dashboard SSE keepalive error", "conn_id", connID, "error", err)
				return
			}
			c.Writer.Flush()
		}
	}
}

// parseChannelFilters parses the channels query parameter, bounded to keep
// large filter lists from exhausting memory.
func (h *DashboardHandler) parseChannelFilters(c *gin.Context) []string {
	param := c.Query("channels")
	if param == "" {
		return nil
	}

	var filters []string
	for _, p := range strings.Split(param, ",") {
		p = strings.TrimSpace(p)
		if p == "" || len(p) > maxChannelFilterLength {
			continue
		}
		filters = append(filters, p)
		if len(filters) >= maxChannelFilters {
			h.logger.Warn("channel filters truncated to max limit", "max", maxChannelFilters)
			break
		}
	}
	return filters
}
