// Package credential provides the overlay credential model. The plaintext
// secret exists only transiently at rotation time; storage and lookup use
// its sha256 digest plus a short non-secret display prefix.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// secretBytes is the entropy of a generated overlay key.
	secretBytes = 48
	// prefixLength is the number of leading plaintext characters kept for
	// operator-facing identification.
	prefixLength = 8
)

// Credential is the aggregate for one channel's overlay key. A channel has
// at most one; rotation replaces it in place.
type Credential struct {
	channelID string
	keyHash   string
	keyPrefix string
	rotatedAt time.Time
	createdAt time.Time

	// plainKey is transient, only populated right after rotation and
	// never persisted or logged.
	plainKey string
}

// NewCredential generates a fresh overlay key for a channel. The plaintext
// is available once via PlainKey.
func NewCredential(channelID string, now time.Time) (*Credential, error) {
	if channelID == "" {
		return nil, fmt.Errorf("channel id is required")
	}

	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate overlay key: %w", err)
	}
	plainKey := base64.RawURLEncoding.EncodeToString(raw)

	return &Credential{
		channelID: channelID,
		keyHash:   HashKey(plainKey),
		keyPrefix: plainKey[:prefixLength],
		rotatedAt: now,
		createdAt: now,
		plainKey:  plainKey,
	}, nil
}

// Reconstruct rebuilds a credential from persistence. The plaintext is gone.
func Reconstruct(channelID, keyHash, keyPrefix string, rotatedAt, createdAt time.Time) (*Credential, error) {
	if channelID == "" {
		return nil, fmt.Errorf("channel id is required")
	}
	if keyHash == "" {
		return nil, fmt.Errorf("key hash is required")
	}

	return &Credential{
		channelID: channelID,
		keyHash:   keyHash,
		keyPrefix: keyPrefix,
		rotatedAt: rotatedAt,
		createdAt: createdAt,
	}, nil
}

func (c *Credential) ChannelID() string    { return c.channelID }
func (c *Credential) KeyHash() string      { return c.keyHash }
func (c *Credential) KeyPrefix() string    { return c.keyPrefix }
func (c *Credential) RotatedAt() time.Time { return c.rotatedAt }
func (c *Credential) CreatedAt() time.Time { return c.createdAt }

// PlainKey returns the plaintext secret, present only on a freshly rotated
// credential.
func (c *Credential) PlainKey() string { return c.plainKey }

// HashKey computes the stored digest of an overlay key.
func HashKey(plainKey string) string {
	sum := sha256.Sum256([]byte(plainKey))
	return hex.EncodeToString(sum[:])
}
