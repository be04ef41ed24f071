package models

import "time"

// ChannelModel represents the database persistence model for channels.
type ChannelModel struct {
	ID          string `gorm:"primarykey;size:64"`
	StreamerID  string `gorm:"size:64;not null;index"`
	DisplayName string `gorm:"size:255;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (ChannelModel) TableName() string {
	return "channels"
}
