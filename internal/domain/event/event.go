// Package event provides the append-only proof-event ledger model. Events
// are immutable once recorded; they are the evidence trail for session
// boundaries and ad delivery lifecycle steps.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adbeam/adbeam/internal/shared/errors"
)

// Type enumerates the closed set of recordable event types.
type Type string

const (
	TypeOverlayConnected    Type = "overlay_connected"
	TypeOverlayHeartbeat    Type = "overlay_heartbeat"
	TypeOverlayDisconnected Type = "overlay_disconnected"
	TypeSessionStarted      Type = "session_started"
	TypeSessionEnded        Type = "session_ended"
	TypeAdCandidateSelected Type = "ad_candidate_selected"
	TypeAdCommandSent       Type = "ad_command_sent"
	TypeAdRendered          Type = "ad_rendered"
	TypeAdCompleted         Type = "ad_completed"
	TypeAdClick             Type = "ad_click"
	TypeAdError             Type = "ad_error"
)

var validTypes = map[Type]bool{
	TypeOverlayConnected:    true,
	TypeOverlayHeartbeat:    true,
	TypeOverlayDisconnected: true,
	TypeSessionStarted:      true,
	TypeSessionEnded:        true,
	TypeAdCandidateSelected: true,
	TypeAdCommandSent:       true,
	TypeAdRendered:          true,
	TypeAdCompleted:         true,
	TypeAdClick:             true,
	TypeAdError:             true,
}

// IsValid checks if the event type belongs to the closed enumeration.
func (t Type) IsValid() bool {
	return validTypes[t]
}

// MaxPayloadBytes bounds the JSON-serialized payload size.
const MaxPayloadBytes = 16384

// Event is an immutable ledger record. Identifier fields other than ID and
// RequestID are empty when unknown.
type Event struct {
	ID         string
	Type       Type
	Timestamp  time.Time
	RequestID  string
	StreamerID string
	ChannelID  string
	SessionID  string
	CampaignID string
	CreativeID string
	Payload    map[string]any
	SourceAddr string
	UserAgent  string
}

// ValidatePayload rejects payloads whose JSON serialization exceeds
// MaxPayloadBytes.
func ValidatePayload(payload map[string]any) error {
	if payload == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.NewValidationError("payload is not serializable", err.Error())
	}
	if len(raw) > MaxPayloadBytes {
		return errors.NewValidationError(
			"payload exceeds 16KB",
			fmt.Sprintf("%d bytes serialized, limit %d", len(raw), MaxPayloadBytes),
		)
	}
	return nil
}

// Validate checks the invariants required before appending.
func (e *Event) Validate() error {
	if e.ID == "" {
		return errors.NewValidationError("event id is required")
	}
	if !e.Type.IsValid() {
		return errors.NewValidationError("unknown event type", string(e.Type))
	}
	if e.RequestID == "" {
		return errors.NewValidationError("request id is required")
	}
	return ValidatePayload(e.Payload)
}
