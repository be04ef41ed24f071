// Package services provides infrastructure services.
package services

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/adbeam/adbeam/internal/domain/delivery"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

// Outbound message event names understood by overlay clients.
const (
	MsgTypeAdCommand = "ad_command"
	MsgTypeSession   = "session"
)

// HubMessage is the envelope written to overlay sockets.
type HubMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// SocketContext carries the identity resolved at connect time. It travels
// with the connection so teardown can attribute the disconnect.
type SocketContext struct {
	StreamerID string
	ChannelID  string
	SessionID  string
}

// OverlayHub manages overlay WebSocket connections. A channel may hold
// several live sockets at once; commands fan out to all of them.
type OverlayHub struct {
	// Overlay connections: map[SocketID]*OverlaySocket
	sockets   map[string]*OverlaySocket
	channels  map[string]map[string]struct{}
	socketsMu sync.RWMutex

	// Callbacks
	onSocketClosed func(socketID string, sctx SocketContext)

	logger logger.Interface
}

// OverlaySocket represents an overlay WebSocket connection.
type OverlaySocket struct {
	SocketID    string
	Context     SocketContext
	Conn        *websocket.Conn
	Send        chan *HubMessage
	ConnectedAt time.Time
}

// NewOverlayHub creates a new OverlayHub instance.
func NewOverlayHub(log logger.Interface) *OverlayHub {
	return &OverlayHub{
		sockets:  make(map[string]*OverlaySocket),
		channels: make(map[string]map[string]struct{}),
		logger:   log,
	}
}

// SetOnSocketClosed sets the callback invoked after a socket is unregistered.
func (h *OverlayHub) SetOnSocketClosed(fn func(socketID string, sctx SocketContext)) {
	h.onSocketClosed = fn
}

// Register registers an overlay WebSocket connection under its socket ID.
// An existing connection with the same ID is closed first.
func (h *OverlayHub) Register(socketID string, sctx SocketContext, conn *websocket.Conn) *OverlaySocket {
	h.socketsMu.Lock()
	defer h.socketsMu.Unlock()

	if existing, ok := h.sockets[socketID]; ok {
		h.detachLocked(existing)
		close(existing.Send)
		existing.Conn.Close()
	}

	sock := &OverlaySocket{
		SocketID:    socketID,
		Context:     sctx,
		Conn:        conn,
		Send:        make(chan *HubMessage, 256),
		ConnectedAt: time.Now(),
	}
	h.sockets[socketID] = sock

	members, ok := h.channels[sctx.ChannelID]
	if !ok {
		members = make(map[string]struct{})
		h.channels[sctx.ChannelID] = members
	}
	members[socketID] = struct{}{}

	h.logger.Info("overlay connected via websocket",
		"socket_id", socketID,
		"channel_id", sctx.ChannelID,
		"streamer_id", sctx.StreamerID,
	)

	return sock
}

// Unregister removes a socket and returns the context it was registered
// with. The second return is false when the socket was not present.
func (h *OverlayHub) Unregister(socketID string) (SocketContext, bool) {
	h.socketsMu.Lock()
	sock, ok := h.sockets[socketID]
	if ok {
		h.detachLocked(sock)
		close(sock.Send)
	}
	h.socketsMu.Unlock()

	if !ok {
		return SocketContext{}, false
	}

	h.logger.Info("overlay disconnected",
		"socket_id", socketID,
		"channel_id", sock.Context.ChannelID,
	)

	if h.onSocketClosed != nil {
		go h.onSocketClosed(socketID, sock.Context)
	}

	return sock.Context, true
}

// detachLocked removes the socket from both indexes. Caller holds socketsMu.
func (h *OverlayHub) detachLocked(sock *OverlaySocket) {
	delete(h.sockets, sock.SocketID)
	if members, ok := h.channels[sock.Context.ChannelID]; ok {
		delete(members, sock.SocketID)
		if len(members) == 0 {
			delete(h.channels, sock.Context.ChannelID)
		}
	}
}

// Push sends a delivery command to every live socket on the channel.
// Returns false when the channel has no connected overlay.
func (h *OverlayHub) Push(channelID string, cmd *delivery.Command) bool {
	h.socketsMu.RLock()
	defer h.socketsMu.RUnlock()

	members, ok := h.channels[channelID]
	if !ok || len(members) == 0 {
		return false
	}

	if len(members) > 1 {
		h.logger.Debug("channel has multiple live sockets, fanning out",
			"channel_id", channelID,
			"sockets", len(members),
		)
	}

	msg := &HubMessage{Event: MsgTypeAdCommand, Data: cmd}
	delivered := false
	for socketID := range members {
		sock, ok := h.sockets[socketID]
		if !ok {
			continue
		}
		select {
		case sock.Send <- msg:
			delivered = true
		default:
			h.logger.Warn("overlay send channel full, dropping command",
				"socket_id", socketID,
				"channel_id", channelID,
			)
		}
	}
	return delivered
}

// SendSessionState pushes the session envelope to a single socket. Used
// right after connect so the overlay knows its active session.
func (h *OverlayHub) SendSessionState(socketID string, data any) error {
	h.socketsMu.RLock()
	defer h.socketsMu.RUnlock()

	sock, ok := h.sockets[socketID]
	if !ok {
		return ErrOverlayNotConnected
	}

	select {
	case sock.Send <- &HubMessage{Event: MsgTypeSession, Data: data}:
		return nil
	default:
		return ErrSendChannelFull
	}
}

// IsConnected checks if a channel has at least one live overlay socket.
func (h *OverlayHub) IsConnected(channelID string) bool {
	h.socketsMu.RLock()
	defer h.socketsMu.RUnlock()
	members, ok := h.channels[channelID]
	return ok && len(members) > 0
}

// ConnectedChannels returns the IDs of channels with live sockets.
func (h *OverlayHub) ConnectedChannels() []string {
	h.socketsMu.RLock()
	defer h.socketsMu.RUnlock()

	ids := make([]string, 0, len(h.channels))
	for id := range h.channels {
		ids = append(ids, id)
	}
	return ids
}

// HubErrors defines overlay hub related errors.
var (
	ErrOverlayNotConnected = &HubError{Code: "OVERLAY_NOT_CONNECTED", Message: "overlay not connected"}
	ErrSendChannelFull     = &HubError{Code: "SEND_CHANNEL_FULL", Message: "send channel full"}
)

// HubError represents an overlay hub error.
type HubError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *HubError) Error() string {
	return e.Message
}
