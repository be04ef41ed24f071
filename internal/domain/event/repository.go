package event

import (
	"context"
	"time"
)

// Repository defines the append-only ledger operations. There is no update
// or delete; recorded events are immutable.
type Repository interface {
	// Append writes a new event.
	Append(ctx context.Context, evt *Event) error
	// CountCompletedInWindow counts ad_completed events for a
	// channel+campaign with timestamps at or after since.
	CountCompletedInWindow(ctx context.Context, channelID, campaignID string, since time.Time) (int64, error)
	// CountCompletedForSession counts ad_completed events for a
	// session+campaign over the whole session lifetime.
	CountCompletedForSession(ctx context.Context, sessionID, campaignID string) (int64, error)
	// CountCommandsInWindow counts ad_command_sent events for a campaign
	// across all channels with timestamps at or after since.
	CountCommandsInWindow(ctx context.Context, campaignID string, since time.Time) (int64, error)
}
