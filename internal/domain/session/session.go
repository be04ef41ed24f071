// Package session provides the domain model for overlay liveness sessions.
// A session is one continuous period during which a channel's overlay is
// considered live, tolerant of disconnects shorter than the grace window.
package session

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of a session.
type Status string

const (
	// StatusActive indicates the overlay is connected and heartbeating.
	StatusActive Status = "active"
	// StatusDisconnected indicates the connection dropped but the session
	// may still be resumed within the grace window.
	StatusDisconnected Status = "disconnected"
	// StatusEnded indicates the session was finalized and can never be
	// reactivated.
	StatusEnded Status = "ended"
)

// IsValid checks if the session status is valid.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusDisconnected || s == StatusEnded
}

// GraceWindow is the tolerance during which a disconnected session is
// resumed instead of finalized. A reconnect inside the window keeps the
// same session id; a later one ends the session at its last heartbeat so
// liveness metrics never span an outage.
const GraceWindow = 5 * time.Minute

// Session is the aggregate root for one tracked liveness period.
type Session struct {
	id              string
	channelID       string
	streamerID      string
	startedAt       time.Time
	lastHeartbeatAt time.Time
	status          Status
	endedAt         *time.Time
}

// NewSession creates a session that starts active at now.
func NewSession(id, channelID, streamerID string, now time.Time) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if channelID == "" {
		return nil, fmt.Errorf("channel id is required")
	}
	if streamerID == "" {
		return nil, fmt.Errorf("streamer id is required")
	}

	return &Session{
		id:              id,
		channelID:       channelID,
		streamerID:      streamerID,
		startedAt:       now,
		lastHeartbeatAt: now,
		status:          StatusActive,
	}, nil
}

// Reconstruct rebuilds a session from persistence.
func Reconstruct(
	id, channelID, streamerID string,
	startedAt, lastHeartbeatAt time.Time,
	status Status,
	endedAt *time.Time,
) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if channelID == "" {
		return nil, fmt.Errorf("channel id is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid session status: %s", status)
	}

	return &Session{
		id:              id,
		channelID:       channelID,
		streamerID:      streamerID,
		startedAt:       startedAt,
		lastHeartbeatAt: lastHeartbeatAt,
		status:          status,
		endedAt:         endedAt,
	}, nil
}

func (s *Session) ID() string                 { return s.id }
func (s *Session) ChannelID() string          { return s.channelID }
func (s *Session) StreamerID() string         { return s.streamerID }
func (s *Session) StartedAt() time.Time       { return s.startedAt }
func (s *Session) LastHeartbeatAt() time.Time { return s.lastHeartbeatAt }
func (s *Session) Status() Status             { return s.status }
func (s *Session) EndedAt() *time.Time        { return s.endedAt }

// IsEnded reports whether the session has been finalized.
func (s *Session) IsEnded() bool {
	return s.status == StatusEnded
}

// RefreshHeartbeat stamps a heartbeat and forces the session back to
// active. Only a finalized session rejects the refresh.
func (s *Session) RefreshHeartbeat(now time.Time) error {
	if s.IsEnded() {
		return fmt.Errorf("session %s already ended", s.id)
	}
	s.status = StatusActive
	s.endedAt = nil
	s.lastHeartbeatAt = now
	return nil
}

// MarkDisconnected records that the live connection dropped. The last
// heartbeat is stamped at disconnect time and the session is left eligible
// for a grace-window resume. Calling it again re-stamps the heartbeat; it
// never finalizes.
func (s *Session) MarkDisconnected(now time.Time) error {
	if s.IsEnded() {
		return fmt.Errorf("session %s already ended", s.id)
	}
	s.status = StatusDisconnected
	s.lastHeartbeatAt = now
	return nil
}

// WithinGrace reports whether now is still inside the grace window measured
// from the last heartbeat.
func (s *Session) WithinGrace(now time.Time) bool {
	return now.Sub(s.lastHeartbeatAt) <= GraceWindow
}

// Finalize ends the session. The end timestamp is the last recorded
// heartbeat, not the time of finalization, so an outage does not inflate
// the session's duration.
func (s *Session) Finalize() error {
	if s.IsEnded() {
		return fmt.Errorf("session %s already ended", s.id)
	}
	endedAt := s.lastHeartbeatAt
	s.status = StatusEnded
	s.endedAt = &endedAt
	return nil
}
