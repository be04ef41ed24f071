package models

import "time"

// CampaignModel represents the database persistence model for campaigns.
type CampaignModel struct {
	ID        string `gorm:"primarykey;size:64"`
	Name      string `gorm:"size:255;not null"`
	BrandID   string `gorm:"size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (CampaignModel) TableName() string {
	return "campaigns"
}
