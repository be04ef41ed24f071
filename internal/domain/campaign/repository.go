package campaign

import "context"

// ChannelRepository reads channel records.
type ChannelRepository interface {
	// GetByID retrieves a channel, returning nil when absent.
	GetByID(ctx context.Context, id string) (*Channel, error)
}

// AssignmentRepository reads campaign-to-channel assignments.
type AssignmentRepository interface {
	// GetLatestForChannel retrieves the most recently created assignment
	// for a channel, optionally restricted to one campaign. Returns nil
	// when no assignment matches.
	GetLatestForChannel(ctx context.Context, channelID, campaignID string) (*Assignment, error)
}

// FlightRepository reads campaign flights.
type FlightRepository interface {
	// GetLatestForCampaign retrieves the most recently created flight of
	// a campaign, returning nil when the campaign has none.
	GetLatestForCampaign(ctx context.Context, campaignID string) (*Flight, error)
}

// CreativeRepository reads creatives.
type CreativeRepository interface {
	// GetApprovedByID retrieves a creative only if it belongs to the
	// campaign and is approved; nil otherwise.
	GetApprovedByID(ctx context.Context, id, campaignID string) (*Creative, error)
	// GetOldestApproved retrieves the oldest-created approved creative of
	// a campaign whose format is in formats; nil when none qualifies.
	GetOldestApproved(ctx context.Context, campaignID string, formats []CreativeFormat) (*Creative, error)
}
