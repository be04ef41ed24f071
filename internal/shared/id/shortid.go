package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

// Prefixes for entity and correlation IDs (Stripe-style)
const (
	// PrefixSystem tags request IDs for server-synthesized proof events.
	PrefixSystem = "sys"
	// PrefixSocket tags request IDs for events originating on a live
	// overlay connection.
	PrefixSocket = "ws"
	// PrefixSession tags overlay session IDs.
	PrefixSession = "ses"
	// PrefixEvent tags proof-event IDs.
	PrefixEvent = "evt"
	// PrefixCommand tags delivery command IDs.
	PrefixCommand = "cmd"
	// PrefixConn tags dashboard connection IDs.
	PrefixConn = "conn"
)

// Generate creates a random short ID with the specified length using Base62 encoding.
// The generated ID is cryptographically random and URL-safe.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// MustGenerate creates a random short ID and panics on error.
func MustGenerate(length int) string {
	id, err := Generate(length)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateWithPrefix creates a prefixed ID in the format "prefix_randomstring".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	id, err := Generate(length)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, id), nil
}

// MustGenerateWithPrefix creates a prefixed ID and panics on error.
func MustGenerateWithPrefix(prefix string, length int) string {
	id, err := GenerateWithPrefix(prefix, length)
	if err != nil {
		panic(err)
	}
	return id
}

// ParsePrefixedID extracts the prefix and short ID from a prefixed ID string.
func ParsePrefixedID(prefixedID string) (prefix, shortID string, err error) {
	parts := strings.SplitN(prefixedID, "_", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid prefixed ID format: %s", prefixedID)
	}
	return parts[0], parts[1], nil
}

// NewSystemRequestID generates a correlation ID for a server-synthesized event.
func NewSystemRequestID() string {
	return MustGenerateWithPrefix(PrefixSystem, DefaultLength)
}

// NewSocketRequestID generates a correlation ID for a socket-originated event.
func NewSocketRequestID() string {
	return MustGenerateWithPrefix(PrefixSocket, DefaultLength)
}

// NewSessionID generates an overlay session ID.
func NewSessionID() string {
	return MustGenerateWithPrefix(PrefixSession, DefaultLength)
}

// NewEventID generates a proof-event ID.
func NewEventID() string {
	return MustGenerateWithPrefix(PrefixEvent, DefaultLength)
}

// NewCommandID generates a delivery command ID.
func NewCommandID() string {
	return MustGenerateWithPrefix(PrefixCommand, DefaultLength)
}

// NewConnID generates a dashboard connection ID.
func NewConnID() string {
	return MustGenerateWithPrefix(PrefixConn, DefaultLength)
}
