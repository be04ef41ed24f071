package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/adbeam/adbeam/internal/application/overlay/dto"
	"github.com/adbeam/adbeam/internal/application/overlay/usecases"
	"github.com/adbeam/adbeam/internal/domain/event"
	"github.com/adbeam/adbeam/internal/infrastructure/services"
	"github.com/adbeam/adbeam/internal/shared/goroutine"
	"github.com/adbeam/adbeam/internal/shared/id"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	maxSocketMessageSize = 4096
	proofWriteTimeout    = 10 * time.Second
)

// newOverlayUpgrader builds the websocket upgrader with an origin check
// over the configured allow list. Requests without an Origin header are
// non-browser clients and pass.
func newOverlayUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
}

// overlayInboundMessage is the envelope read from overlay sockets.
type overlayInboundMessage struct {
	Type string `json:"type"`
}

// OverlayHandler handles WebSocket connections from overlay clients.
type OverlayHandler struct {
	hub          *services.OverlayHub
	validator    *usecases.ValidateCredentialUseCase
	registry     *usecases.SessionRegistryUseCase
	systemEvents *usecases.RecordSystemEventUseCase
	broadcaster  usecases.OperatorBroadcaster
	tasks        usecases.TaskRunner
	upgrader     websocket.Upgrader
	logger       logger.Interface
}

// NewOverlayHandler creates a new OverlayHandler.
func NewOverlayHandler(
	hub *services.OverlayHub,
	validator *usecases.ValidateCredentialUseCase,
	registry *usecases.SessionRegistryUseCase,
	systemEvents *usecases.RecordSystemEventUseCase,
	broadcaster usecases.OperatorBroadcaster,
	tasks usecases.TaskRunner,
	allowedOrigins []string,
	log logger.Interface,
) *OverlayHandler {
	return &OverlayHandler{
		hub:          hub,
		validator:    validator,
		registry:     registry,
		systemEvents: systemEvents,
		broadcaster:  broadcaster,
		tasks:        tasks,
		upgrader:     newOverlayUpgrader(allowedOrigins),
		logger:       log,
	}
}

// OverlayWS handles a WebSocket connection from an overlay client.
// GET /ws/overlay?key=<overlay key>
func (h *OverlayHandler) OverlayWS(c *gin.Context) {
	identity, err := h.validator.Execute(c.Request.Context(), c.Query("key"))
	if err != nil {
		h.logger.Error("failed to validate overlay key", "error", err, "ip", c.ClientIP())
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	conn, upgradeErr := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if upgradeErr != nil {
		h.logger.Warn("failed to upgrade to websocket", "error", upgradeErr, "ip", c.ClientIP())
		return
	}

	// A bad key closes the socket without an error frame, so probing keys
	// over the WS endpoint reveals nothing.
	if identity == nil {
		h.logger.Warn("overlay websocket rejected, unknown key", "ip", c.ClientIP())
		conn.Close()
		return
	}

	now := time.Now().UTC()
	sess, err := h.registry.GetOrCreate(c.Request.Context(), identity.ChannelID, identity.StreamerID, now)
	if err != nil {
		h.logger.Error("failed to resolve session on overlay connect",
			"error", err,
			"channel_id", identity.ChannelID,
		)
		conn.Close()
		return
	}

	socketID := id.NewConnID()
	sctx := services.SocketContext{
		StreamerID: identity.StreamerID,
		ChannelID:  identity.ChannelID,
		SessionID:  sess.ID(),
	}
	sock := h.hub.Register(socketID, sctx, conn)

	if err := h.hub.SendSessionState(socketID, dto.SessionState{
		SessionID: sess.ID(),
		ChannelID: identity.ChannelID,
	}); err != nil {
		h.logger.Warn("failed to send session state", "socket_id", socketID, "error", err)
	}

	h.recordSocketEvent(event.TypeOverlayConnected, sctx, nil)
	h.tasks.Submit("broadcast.overlay_status", func() {
		h.broadcaster.BroadcastOverlayStatus(sctx.ChannelID, map[string]any{
			"status":    "connected",
			"sessionId": sctx.SessionID,
		})
	})

	goroutine.SafeGo(h.logger, "overlay-write-pump", func() {
		h.writePump(socketID, conn, sock.Send)
	})
	h.readPump(socketID, sctx, conn)
}

// readPump reads messages from the overlay socket until it closes.
func (h *OverlayHandler) readPump(socketID string, sctx services.SocketContext, conn *websocket.Conn) {
	defer func() {
		h.hub.Unregister(socketID)
		conn.Close()
	}()

	conn.SetReadLimit(maxSocketMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("overlay websocket read error",
					"error", err,
					"socket_id", socketID,
				)
			}
			break
		}

		var msg overlayInboundMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.logger.Warn("failed to parse overlay socket message",
				"error", err,
				"socket_id", socketID,
			)
			continue
		}

		switch msg.Type {
		case "heartbeat":
			h.handleHeartbeat(sctx)
		default:
			h.logger.Debug("unhandled overlay socket message type",
				"type", msg.Type,
				"socket_id", socketID,
			)
		}
	}
}

// writePump writes hub messages and pings to the overlay socket.
func (h *OverlayHandler) writePump(socketID string, conn *websocket.Conn, send chan *services.HubMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("failed to write to overlay websocket",
					"error", err,
					"socket_id", socketID,
				)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleHeartbeat records the heartbeat proof against the session bound at
// connect time. Session transitions run only on connect and disconnect; a
// socket heartbeat must never finalize or replace the session it belongs
// to.
func (h *OverlayHandler) handleHeartbeat(sctx services.SocketContext) {
	now := time.Now().UTC()

	h.recordSocketEvent(event.TypeOverlayHeartbeat, sctx, map[string]any{"ts": now.Unix()})
	h.tasks.Submit("broadcast.overlay_heartbeat", func() {
		h.broadcaster.BroadcastOverlayHeartbeat(sctx.ChannelID, map[string]any{
			"sessionId": sctx.SessionID,
			"ts":        now.Unix(),
		})
	})
}

// HandleSocketClosed finalizes liveness state after a socket unregisters.
// Wired as the hub's close callback.
func (h *OverlayHandler) HandleSocketClosed(socketID string, sctx services.SocketContext) {
	now := time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), proofWriteTimeout)
	defer cancel()

	if err := h.registry.MarkDisconnected(ctx, sctx.SessionID, now); err != nil {
		h.logger.Warn("failed to mark session disconnected",
			"error", err,
			"session_id", sctx.SessionID,
		)
	}

	h.recordSocketEvent(event.TypeOverlayDisconnected, sctx, nil)
	h.tasks.Submit("broadcast.overlay_status", func() {
		h.broadcaster.BroadcastOverlayStatus(sctx.ChannelID, map[string]any{
			"status":    "disconnected",
			"sessionId": sctx.SessionID,
		})
	})
}

// recordSocketEvent appends a server-synthesized proof event off the
// socket path; failures are logged, never surfaced.
func (h *OverlayHandler) recordSocketEvent(typ event.Type, sctx services.SocketContext, payload map[string]any) {
	h.tasks.Submit("proof."+string(typ), func() {
		ctx, cancel := context.WithTimeout(context.Background(), proofWriteTimeout)
		defer cancel()

		if err := h.systemEvents.Execute(ctx, usecases.SystemEventParams{
			Type:       typ,
			RequestID:  id.NewSocketRequestID(),
			StreamerID: sctx.StreamerID,
			ChannelID:  sctx.ChannelID,
			SessionID:  sctx.SessionID,
			Payload:    payload,
		}); err != nil {
			h.logger.Warn("failed to record socket event",
				"type", typ,
				"channel_id", sctx.ChannelID,
				"error", err,
			)
		}
	})
}
