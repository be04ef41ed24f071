package models

import "time"

// CredentialModel represents the database persistence model for overlay
// credentials. One credential exists per channel; rotation replaces the row.
type CredentialModel struct {
	ChannelID string `gorm:"primarykey;size:64"`
	KeyHash   string `gorm:"size:64;not null;index"`
	KeyPrefix string `gorm:"size:8;not null"`
	RotatedAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (CredentialModel) TableName() string {
	return "overlay_credentials"
}
