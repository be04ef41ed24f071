// Package dto defines request and response shapes for the overlay context.
package dto

import "time"

// IngestEventRequest carries a client-submitted telemetry event. OverlayKey
// and origin metadata are filled by the transport layer, never by clients.
type IngestEventRequest struct {
	OverlayKey string
	SourceAddr string
	UserAgent  string

	ID         string         `json:"id"`
	Type       string         `json:"type" binding:"required"`
	Timestamp  *time.Time     `json:"ts"`
	RequestID  string         `json:"request_id" binding:"required"`
	StreamerID string         `json:"streamer_id"`
	ChannelID  string         `json:"channel_id"`
	SessionID  string         `json:"session_id"`
	CampaignID string         `json:"campaign_id"`
	CreativeID string         `json:"creative_id"`
	Payload    map[string]any `json:"payload"`
}

// IngestEventResponse acknowledges an accepted event.
type IngestEventResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId,omitempty"`
}

// RotateCredentialRequest asks for a fresh overlay key on a channel.
type RotateCredentialRequest struct {
	ChannelID string `json:"channelId" binding:"required"`

	// Actor identity resolved from the access token.
	ActorID   string `json:"-"`
	ActorRole string `json:"-"`
}

// RotateCredentialResponse returns the plaintext key exactly once.
type RotateCredentialResponse struct {
	OverlayKey string `json:"overlayKey"`
	OverlayURL string `json:"overlayUrl"`
	KeyPrefix  string `json:"keyPrefix"`
}

// SessionState is the envelope pushed to an overlay right after connect.
type SessionState struct {
	SessionID string `json:"sessionId"`
	ChannelID string `json:"channelId"`
}
