package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/adbeam/adbeam/internal/domain/event"
	"github.com/adbeam/adbeam/internal/domain/session"
	"github.com/adbeam/adbeam/internal/shared/id"
	"github.com/adbeam/adbeam/internal/shared/keymutex"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

// SessionRegistryUseCase owns the per-channel session state machine. All
// read-transition-write sequences for one channel run under that channel's
// lock; two concurrent connects for the same channel cannot both create a
// session.
type SessionRegistryUseCase struct {
	sessionRepo session.Repository
	eventRepo   event.Repository
	locks       *keymutex.KeyMutex
	logger      logger.Interface
}

// NewSessionRegistryUseCase creates a new session registry use case.
func NewSessionRegistryUseCase(
	sessionRepo session.Repository,
	eventRepo event.Repository,
	logger logger.Interface,
) *SessionRegistryUseCase {
	return &SessionRegistryUseCase{
		sessionRepo: sessionRepo,
		eventRepo:   eventRepo,
		locks:       keymutex.New(),
		logger:      logger,
	}
}

// GetOrCreate resolves the channel's current session at now, applying the
// full transition table: refresh an active session, resume a disconnected
// one inside the grace window, finalize and recreate past it, create fresh
// when none exists. Boundary transitions
// synthesize session_started / session_ended proof events; a pure
// heartbeat refresh synthesizes nothing.
func (uc *SessionRegistryUseCase) GetOrCreate(ctx context.Context, channelID, streamerID string, now time.Time) (*session.Session, error) {
	uc.locks.Lock(channelID)
	defer uc.locks.Unlock(channelID)

	current, err := uc.sessionRepo.GetCurrentByChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current session: %w", err)
	}

	if current != nil && !current.IsEnded() {
		// An active session refreshes unconditionally; the grace window
		// only gates resuming a disconnected one. A live connection with
		// sparse heartbeats stays one continuous session.
		if current.Status() == session.StatusActive || current.WithinGrace(now) {
			if err := current.RefreshHeartbeat(now); err != nil {
				return nil, err
			}
			if err := uc.sessionRepo.Update(ctx, current); err != nil {
				return nil, fmt.Errorf("failed to refresh session heartbeat: %w", err)
			}
			return current, nil
		}

		// A disconnected session past the grace window closes at its
		// last heartbeat, not at now; duration metrics never span the
		// outage.
		if err := current.Finalize(); err != nil {
			return nil, err
		}
		if err := uc.sessionRepo.Update(ctx, current); err != nil {
			return nil, fmt.Errorf("failed to finalize session: %w", err)
		}
		uc.recordBoundary(ctx, event.TypeSessionEnded, current, *current.EndedAt())
	}

	sess, err := session.NewSession(id.NewSessionID(), channelID, streamerID, now)
	if err != nil {
		return nil, err
	}
	if err := uc.sessionRepo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	uc.recordBoundary(ctx, event.TypeSessionStarted, sess, now)

	uc.logger.Info("session started",
		"session_id", sess.ID(),
		"channel_id", channelID,
		"streamer_id", streamerID,
	)

	return sess, nil
}

// MarkDisconnected stamps the session disconnected at now. Idempotent:
// repeat calls re-stamp the heartbeat without finalizing.
func (uc *SessionRegistryUseCase) MarkDisconnected(ctx context.Context, sessionID string, now time.Time) error {
	sess, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		return nil
	}

	uc.locks.Lock(sess.ChannelID())
	defer uc.locks.Unlock(sess.ChannelID())

	// Re-read under the lock; a concurrent transition may have advanced it.
	sess, err = uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil || sess.IsEnded() {
		return nil
	}

	if err := sess.MarkDisconnected(now); err != nil {
		return err
	}
	if err := uc.sessionRepo.Update(ctx, sess); err != nil {
		return fmt.Errorf("failed to mark session disconnected: %w", err)
	}
	return nil
}

// RecordDisconnect applies a client-reported disconnect event to the
// channel's current session. A first disconnect marks the session
// disconnected; a repeat disconnect on an already-disconnected session
// finalizes it. Returns the affected session, or nil when the channel has
// no open session.
func (uc *SessionRegistryUseCase) RecordDisconnect(ctx context.Context, channelID string, now time.Time) (*session.Session, error) {
	uc.locks.Lock(channelID)
	defer uc.locks.Unlock(channelID)

	current, err := uc.sessionRepo.GetCurrentByChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current session: %w", err)
	}
	if current == nil || current.IsEnded() {
		return nil, nil
	}

	if current.Status() == session.StatusDisconnected {
		if err := current.Finalize(); err != nil {
			return nil, err
		}
		if err := uc.sessionRepo.Update(ctx, current); err != nil {
			return nil, fmt.Errorf("failed to finalize session: %w", err)
		}
		uc.recordBoundary(ctx, event.TypeSessionEnded, current, *current.EndedAt())
		return current, nil
	}

	if err := current.MarkDisconnected(now); err != nil {
		return nil, err
	}
	if err := uc.sessionRepo.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to mark session disconnected: %w", err)
	}
	return current, nil
}

// Current returns the channel's most recent session regardless of status,
// or nil when the channel never had one.
func (uc *SessionRegistryUseCase) Current(ctx context.Context, channelID string) (*session.Session, error) {
	return uc.sessionRepo.GetCurrentByChannel(ctx, channelID)
}

// recordBoundary appends a session lifecycle proof event. Best effort: a
// write failure is logged and never aborts the transition that caused it.
func (uc *SessionRegistryUseCase) recordBoundary(ctx context.Context, typ event.Type, sess *session.Session, ts time.Time) {
	evt := &event.Event{
		ID:         id.NewEventID(),
		Type:       typ,
		Timestamp:  ts,
		RequestID:  id.NewSystemRequestID(),
		StreamerID: sess.StreamerID(),
		ChannelID:  sess.ChannelID(),
		SessionID:  sess.ID(),
	}
	if err := uc.eventRepo.Append(ctx, evt); err != nil {
		uc.logger.Warn("failed to record session boundary event",
			"type", typ,
			"session_id", sess.ID(),
			"error", err,
		)
	}
}
