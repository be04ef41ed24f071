package models

import "time"

// AssignmentModel represents the database persistence model for
// campaign-to-channel assignments.
type AssignmentModel struct {
	ID         string    `gorm:"primarykey;size:64"`
	ChannelID  string    `gorm:"size:64;not null;index:idx_assignments_channel_campaign"`
	CampaignID string    `gorm:"size:64;not null;index:idx_assignments_channel_campaign"`
	Active     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"index:idx_assignments_channel_campaign"`
	UpdatedAt  time.Time
}

// TableName specifies the table name for GORM
func (AssignmentModel) TableName() string {
	return "assignments"
}
