package models

import "time"

// SessionModel represents the database persistence model for overlay sessions.
type SessionModel struct {
	ID              string `gorm:"primarykey;size:64"`
	ChannelID       string `gorm:"size:64;not null;index:idx_overlay_sessions_channel_status"`
	StreamerID      string `gorm:"size:64;not null;index"`
	Status          string `gorm:"size:20;not null;default:active;index:idx_overlay_sessions_channel_status"`
	StartedAt       time.Time
	LastHeartbeatAt time.Time
	EndedAt         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for GORM
func (SessionModel) TableName() string {
	return "overlay_sessions"
}
