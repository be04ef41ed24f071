package usecases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/adbeam/adbeam/internal/domain/credential"
	"github.com/adbeam/adbeam/internal/domain/event"
	"github.com/adbeam/adbeam/internal/domain/session"
)

// fakeSessionRepo is an in-memory session.Repository.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*session.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, sess *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID()] = sess
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, sess *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID()] = sess
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id], nil
}

func (r *fakeSessionRepo) GetCurrentByChannel(_ context.Context, channelID string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matches []*session.Session
	for _, s := range r.sessions {
		if s.ChannelID() == channelID {
			matches = append(matches, s)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartedAt().After(matches[j].StartedAt())
	})
	return matches[0], nil
}

// fakeEventRepo is an in-memory event.Repository.
type fakeEventRepo struct {
	mu     sync.Mutex
	events []*event.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{}
}

func (r *fakeEventRepo) Append(_ context.Context, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *fakeEventRepo) CountCompletedInWindow(_ context.Context, channelID, campaignID string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if e.Type == event.TypeAdCompleted && e.ChannelID == channelID && e.CampaignID == campaignID && !e.Timestamp.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) CountCompletedForSession(_ context.Context, sessionID, campaignID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if e.Type == event.TypeAdCompleted && e.SessionID == sessionID && e.CampaignID == campaignID {
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) CountCommandsInWindow(_ context.Context, campaignID string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if e.Type == event.TypeAdCommandSent && e.CampaignID == campaignID && !e.Timestamp.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) byType(typ event.Type) []*event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*event.Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// fakeCredentialRepo is an in-memory credential.Repository. StreamerIDs
// maps channel IDs to their owners for identity resolution.
type fakeCredentialRepo struct {
	mu          sync.Mutex
	byHash      map[string]string // keyHash -> channelID
	StreamerIDs map[string]string
}

func newFakeCredentialRepo() *fakeCredentialRepo {
	return &fakeCredentialRepo{
		byHash:      make(map[string]string),
		StreamerIDs: make(map[string]string),
	}
}

func (r *fakeCredentialRepo) Upsert(_ context.Context, cred *credential.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, channelID := range r.byHash {
		if channelID == cred.ChannelID() {
			delete(r.byHash, hash)
		}
	}
	r.byHash[cred.KeyHash()] = cred.ChannelID()
	return nil
}

func (r *fakeCredentialRepo) ResolveIdentity(_ context.Context, keyHash string) (*credential.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	channelID, ok := r.byHash[keyHash]
	if !ok {
		return nil, nil
	}
	return &credential.Identity{
		ChannelID:  channelID,
		StreamerID: r.StreamerIDs[channelID],
	}, nil
}

// fakeMetrics counts recorded ingest outcomes.
type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counts: make(map[string]int)}
}

func (m *fakeMetrics) EventIngested(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[eventType]++
}

// fakeBroadcaster records dashboard broadcasts.
type fakeBroadcaster struct {
	mu         sync.Mutex
	statuses   []string
	heartbeats []string
}

func (b *fakeBroadcaster) BroadcastOverlayStatus(channelID string, _ any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses = append(b.statuses, channelID)
}

func (b *fakeBroadcaster) BroadcastOverlayHeartbeat(channelID string, _ any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.heartbeats = append(b.heartbeats, channelID)
}

// syncTasks runs submitted work inline for deterministic assertions.
type syncTasks struct{}

func (syncTasks) Submit(_ string, fn func()) { fn() }
