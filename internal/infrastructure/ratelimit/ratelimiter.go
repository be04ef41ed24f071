package ratelimit

import "context"

// IngestLimiter bounds event ingest throughput per credential and source address.
type IngestLimiter interface {
	// Allow reports whether another event may be accepted for the given
	// overlay key and remote address within the current window.
	Allow(ctx context.Context, overlayKey, remoteAddr string) (bool, error)
}
