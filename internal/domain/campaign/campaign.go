// Package campaign provides read models for the campaign catalog the
// dispatcher consults. Campaign management itself (CRUD, approval flows,
// asset storage) lives in an external system; this service only reads the
// records it needs to resolve a delivery.
package campaign

import "time"

// CreativeFormat enumerates renderable creative formats.
type CreativeFormat string

const (
	FormatImage CreativeFormat = "image"
	FormatGIF   CreativeFormat = "gif"
	FormatMP4   CreativeFormat = "mp4"
)

// ApprovalStatus enumerates creative review states.
type ApprovalStatus string

const (
	ApprovalDraft     ApprovalStatus = "draft"
	ApprovalSubmitted ApprovalStatus = "submitted"
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalRejected  ApprovalStatus = "rejected"
)

// Channel is a streaming destination owned by a streamer profile.
type Channel struct {
	ID         string
	StreamerID string
	Name       string
	CreatedAt  time.Time
}

// Assignment links a campaign to a channel for delivery.
type Assignment struct {
	ID         string
	ChannelID  string
	CampaignID string
	CreatedAt  time.Time
}

// Flight is a campaign's pacing configuration. The most recently created
// flight is the active one.
type Flight struct {
	ID                    string
	CampaignID            string
	PacingPerHour         int
	CapPerStreamerPerHour int
	CapPerSession         int
	AllowedFormats        []CreativeFormat
	CreatedAt             time.Time
}

// Creative is a renderable ad asset belonging to a campaign.
type Creative struct {
	ID             string
	CampaignID     string
	Format         CreativeFormat
	ApprovalStatus ApprovalStatus
	DurationSec    int
	AssetURL       string
	ClickURL       string
	CreatedAt      time.Time
}
