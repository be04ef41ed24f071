// Package dto defines request and response shapes for the delivery context.
package dto

// TriggerDeliveryRequest asks the dispatcher to push an ad to a channel.
type TriggerDeliveryRequest struct {
	ChannelID   string `json:"channelId" binding:"required"`
	CampaignID  string `json:"campaignId"`
	CreativeID  string `json:"creativeId"`
	DurationSec int    `json:"durationSec"`

	// Actor identity resolved from the access token.
	ActorID   string `json:"-"`
	ActorRole string `json:"-"`
}

// TriggerDeliveryResponse reports a committed dispatch.
type TriggerDeliveryResponse struct {
	CommandID  string `json:"commandId"`
	ChannelID  string `json:"channelId"`
	CampaignID string `json:"campaignId"`
	CreativeID string `json:"creativeId"`
	SessionID  string `json:"sessionId"`
}
