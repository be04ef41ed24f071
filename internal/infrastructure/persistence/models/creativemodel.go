package models

import "time"

// CreativeModel represents the database persistence model for creatives.
type CreativeModel struct {
	ID             string    `gorm:"primarykey;size:64"`
	CampaignID     string    `gorm:"size:64;not null;index:idx_creatives_campaign_status"`
	Format         string    `gorm:"size:20;not null"`
	ApprovalStatus string    `gorm:"size:20;not null;default:draft;index:idx_creatives_campaign_status"`
	DurationSec    int       `gorm:"not null;default:15"`
	AssetURL       string    `gorm:"size:1024;not null"`
	ClickURL       string    `gorm:"size:1024"`
	CreatedAt      time.Time `gorm:"index:idx_creatives_campaign_status"`
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (CreativeModel) TableName() string {
	return "creatives"
}
