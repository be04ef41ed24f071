package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adbeam/adbeam/internal/shared/logger"
)

// DashboardEventType represents the type of dashboard SSE event.
type DashboardEventType string

// Dashboard event types for SSE.
const (
	DashboardEventOverlayStatus    DashboardEventType = "overlay_status"
	DashboardEventOverlayHeartbeat DashboardEventType = "overlay_heartbeat"
	DashboardEventDeliverySent     DashboardEventType = "delivery_sent"
)

// DashboardEvent represents an SSE event pushed to operator dashboards.
type DashboardEvent struct {
	Type      DashboardEventType `json:"type"`
	ChannelID string             `json:"channelId"`
	Timestamp int64              `json:"timestamp"`
	Data      any                `json:"data,omitempty"`
}

// DashboardConn represents an SSE connection from an operator dashboard.
type DashboardConn struct {
	ID             string
	ActorID        string
	Send           chan []byte
	ChannelFilters map[string]bool // nil means subscribe to all channels
	ConnectedAt    time.Time
	closed         atomic.Bool
}

// TrySend attempts to send data to the SSE connection.
// Returns false if the channel is closed or full.
func (c *DashboardConn) TrySend(data []byte) (sent bool) {
	if c.closed.Load() {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			sent = false
		}
	}()

	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Close marks the connection as closed and closes the send channel.
func (c *DashboardConn) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.Send)
	}
}

// ShouldReceive checks if this connection subscribes to the given channel.
func (c *DashboardConn) ShouldReceive(channelID string) bool {
	if c.ChannelFilters == nil {
		return true
	}
	return c.ChannelFilters[channelID]
}

// DashboardHub manages SSE connections from operator dashboards.
type DashboardHub struct {
	// SSE connections: map[connID]*DashboardConn
	conns   map[string]*DashboardConn
	connsMu sync.RWMutex

	// Connections per actor for abuse control
	actorConns   map[string]int
	actorConnsMu sync.RWMutex

	// Heartbeat throttling: map[channelID]lastPushTime
	heartbeatThrottle   map[string]time.Time
	heartbeatThrottleMu sync.RWMutex

	maxConnsPerActor    int
	heartbeatThrottleMs int64

	done     chan struct{}
	shutdown atomic.Bool

	logger logger.Interface
}

// DashboardHubConfig holds configuration for DashboardHub.
type DashboardHubConfig struct {
	MaxConnsPerActor    int   // Max SSE connections per actor (default: 5)
	HeartbeatThrottleMs int64 // Throttle interval for heartbeat events in ms (default: 5000)
}

// NewDashboardHub creates a new DashboardHub instance.
func NewDashboardHub(log logger.Interface, config *DashboardHubConfig) *DashboardHub {
	maxConns := 5
	throttleMs := int64(5000)

	if config != nil {
		if config.MaxConnsPerActor > 0 {
			maxConns = config.MaxConnsPerActor
		}
		if config.HeartbeatThrottleMs > 0 {
			throttleMs = config.HeartbeatThrottleMs
		}
	}

	h := &DashboardHub{
		conns:               make(map[string]*DashboardConn),
		actorConns:          make(map[string]int),
		heartbeatThrottle:   make(map[string]time.Time),
		maxConnsPerActor:    maxConns,
		heartbeatThrottleMs: throttleMs,
		done:                make(chan struct{}),
		logger:              log,
	}

	go h.cleanupLoop()

	return h
}

// cleanupLoop periodically cleans up the throttle cache.
func (h *DashboardHub) cleanupLoop() {
	interval := time.Duration(h.heartbeatThrottleMs*2) * time.Millisecond
	if interval < 10*time.Second {
		interval = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupThrottleCache()
		}
	}
}

// Shutdown stops the DashboardHub and releases resources.
// Safe to call multiple times.
func (h *DashboardHub) Shutdown() {
	if !h.shutdown.CompareAndSwap(false, true) {
		return
	}

	close(h.done)

	h.connsMu.Lock()
	for _, conn := range h.conns {
		conn.Close()
	}
	h.conns = make(map[string]*DashboardConn)
	h.connsMu.Unlock()
}

// RegisterConn registers a new dashboard SSE connection.
// Returns the connection or nil if max connections exceeded or hub is shutdown.
func (h *DashboardHub) RegisterConn(connID, actorID string, channelFilters []string) *DashboardConn {
	if h.shutdown.Load() {
		return nil
	}

	var filterMap map[string]bool
	if len(channelFilters) > 0 {
		filterMap = make(map[string]bool, len(channelFilters))
		for _, id := range channelFilters {
			filterMap[id] = true
		}
	}

	conn := &DashboardConn{
		ID:             connID,
		ActorID:        actorID,
		Send:           make(chan []byte, 64),
		ChannelFilters: filterMap,
		ConnectedAt:    time.Now().UTC(),
	}

	// Locks acquired in consistent order (connsMu -> actorConnsMu)
	// to prevent deadlock with UnregisterConn
	h.connsMu.Lock()
	defer h.connsMu.Unlock()

	h.actorConnsMu.Lock()
	defer h.actorConnsMu.Unlock()

	if h.actorConns[actorID] >= h.maxConnsPerActor {
		h.logger.Warn("dashboard SSE connection limit exceeded",
			"actor_id", actorID,
			"limit", h.maxConnsPerActor,
		)
		return nil
	}

	h.conns[connID] = conn
	h.actorConns[actorID]++

	h.logger.Info("dashboard SSE connection registered",
		"conn_id", connID,
		"actor_id", actorID,
		"channel_filters", channelFilters,
	)

	return conn
}

// UnregisterConn removes a dashboard SSE connection.
func (h *DashboardHub) UnregisterConn(connID string) {
	h.connsMu.Lock()
	h.actorConnsMu.Lock()

	conn, ok := h.conns[connID]
	if ok {
		delete(h.conns, connID)
		if h.actorConns[conn.ActorID] > 0 {
			h.actorConns[conn.ActorID]--
		}
	}

	h.actorConnsMu.Unlock()
	h.connsMu.Unlock()

	if ok {
		conn.Close()

		h.logger.Info("dashboard SSE connection unregistered",
			"conn_id", connID,
			"actor_id", conn.ActorID,
		)
	}
}

// Broadcast sends an event to all matching dashboard connections.
// Delivery is best effort; slow consumers drop events.
func (h *DashboardHub) Broadcast(event *DashboardEvent) {
	if event.Type == DashboardEventOverlayHeartbeat {
		if !h.shouldPushHeartbeat(event.ChannelID) {
			return
		}
	}

	data, err := h.formatSSEEvent(event)
	if err != nil {
		h.logger.Error("failed to format SSE event",
			"event_type", event.Type,
			"error", err,
		)
		return
	}

	h.connsMu.RLock()
	defer h.connsMu.RUnlock()

	for _, conn := range h.conns {
		if conn.ShouldReceive(event.ChannelID) {
			if !conn.TrySend(data) {
				h.logger.Warn("failed to send SSE event, channel full",
					"conn_id", conn.ID,
					"event_type", event.Type,
				)
			}
		}
	}
}

// BroadcastOverlayStatus broadcasts an overlay connect or disconnect.
func (h *DashboardHub) BroadcastOverlayStatus(channelID string, status any) {
	h.Broadcast(&DashboardEvent{
		Type:      DashboardEventOverlayStatus,
		ChannelID: channelID,
		Timestamp: time.Now().UTC().Unix(),
		Data:      status,
	})
}

// BroadcastOverlayHeartbeat broadcasts a heartbeat observation.
func (h *DashboardHub) BroadcastOverlayHeartbeat(channelID string, data any) {
	h.Broadcast(&DashboardEvent{
		Type:      DashboardEventOverlayHeartbeat,
		ChannelID: channelID,
		Timestamp: time.Now().UTC().Unix(),
		Data:      data,
	})
}

// BroadcastDeliverySent broadcasts a completed delivery push.
func (h *DashboardHub) BroadcastDeliverySent(channelID string, data any) {
	h.Broadcast(&DashboardEvent{
		Type:      DashboardEventDeliverySent,
		ChannelID: channelID,
		Timestamp: time.Now().UTC().Unix(),
		Data:      data,
	})
}

// GetConnCount returns the current number of dashboard connections.
func (h *DashboardHub) GetConnCount() int {
	h.connsMu.RLock()
	defer h.connsMu.RUnlock()
	return len(h.conns)
}

// shouldPushHeartbeat checks if a heartbeat event should be pushed (throttle check).
func (h *DashboardHub) shouldPushHeartbeat(channelID string) bool {
	now := time.Now().UTC()
	throttleDuration := time.Duration(h.heartbeatThrottleMs) * time.Millisecond

	h.heartbeatThrottleMu.Lock()
	defer h.heartbeatThrottleMu.Unlock()

	lastPush, exists := h.heartbeatThrottle[channelID]
	if exists && now.Sub(lastPush) < throttleDuration {
		return false
	}

	h.heartbeatThrottle[channelID] = now
	return true
}

// formatSSEEvent formats an event as SSE data.
func (h *DashboardHub) formatSSEEvent(event *DashboardEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	// SSE format: "event: <type>\ndata: <json>\n\n"
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, data)), nil
}

// cleanupThrottleCache removes stale entries from the throttle cache.
func (h *DashboardHub) cleanupThrottleCache() {
	now := time.Now().UTC()
	threshold := time.Duration(h.heartbeatThrottleMs*2) * time.Millisecond

	h.heartbeatThrottleMu.Lock()
	for channelID, lastPush := range h.heartbeatThrottle {
		if now.Sub(lastPush) > threshold {
			delete(h.heartbeatThrottle, channelID)
		}
	}
	h.heartbeatThrottleMu.Unlock()
}
