package credential

import "context"

// Identity is the channel identity resolved from a valid overlay key.
type Identity struct {
	ChannelID  string
	StreamerID string
}

// Repository defines persistence operations for overlay credentials.
type Repository interface {
	// Upsert stores the credential, replacing any prior credential for
	// the same channel. The superseded secret stops validating at once.
	Upsert(ctx context.Context, cred *Credential) error
	// ResolveIdentity finds the channel identity whose credential digest
	// matches keyHash, returning nil when no credential matches.
	ResolveIdentity(ctx context.Context, keyHash string) (*Identity, error)
}
