package session

import "context"

// Repository defines persistence operations for sessions.
type Repository interface {
	// Create persists a new session.
	Create(ctx context.Context, sess *Session) error
	// Update persists changes to an existing session.
	Update(ctx context.Context, sess *Session) error
	// GetByID retrieves a session by id, returning nil when absent.
	GetByID(ctx context.Context, id string) (*Session, error)
	// GetCurrentByChannel retrieves the most recently started session for
	// a channel regardless of status, returning nil when the channel has
	// never had one.
	GetCurrentByChannel(ctx context.Context, channelID string) (*Session, error)
}
