package models

import "time"

// FlightModel represents the database persistence model for campaign flights.
// AllowedFormats is stored as a comma separated list.
type FlightModel struct {
	ID                    string    `gorm:"primarykey;size:64"`
	CampaignID            string    `gorm:"size:64;not null;index:idx_flights_campaign_created"`
	PacingPerHour         int       `gorm:"not null;default:0"`
	CapPerStreamerPerHour int       `gorm:"not null;default:0"`
	CapPerSession         int       `gorm:"not null;default:0"`
	AllowedFormats        string    `gorm:"size:255;not null;default:''"`
	CreatedAt             time.Time `gorm:"index:idx_flights_campaign_created"`
	UpdatedAt             time.Time
}

// TableName specifies the table name for GORM
func (FlightModel) TableName() string {
	return "flights"
}
