package models

import (
	"time"

	"gorm.io/datatypes"
)

// EventModel represents the database persistence model for overlay events.
// Rows are append only.
type EventModel struct {
	ID         string    `gorm:"primarykey;size:64"`
	Type       string    `gorm:"size:40;not null;index:idx_overlay_events_type_time"`
	Timestamp  time.Time `gorm:"not null;index:idx_overlay_events_type_time"`
	RequestID  string    `gorm:"size:64;not null"`
	StreamerID string    `gorm:"size:64"`
	ChannelID  string    `gorm:"size:64;index:idx_overlay_events_channel_campaign"`
	SessionID  string    `gorm:"size:64;index:idx_overlay_events_session_campaign"`
	CampaignID string    `gorm:"size:64;index:idx_overlay_events_channel_campaign;index:idx_overlay_events_session_campaign"`
	CreativeID string    `gorm:"size:64"`
	Payload    datatypes.JSON
	SourceAddr string `gorm:"size:64"`
	UserAgent  string `gorm:"size:512"`
	CreatedAt  time.Time
}

// TableName specifies the table name for GORM
func (EventModel) TableName() string {
	return "overlay_events"
}
