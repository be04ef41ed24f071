package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adbeam/adbeam/internal/application/overlay/usecases"
	"github.com/adbeam/adbeam/internal/domain/event"
	"github.com/adbeam/adbeam/internal/domain/session"
	"github.com/adbeam/adbeam/internal/infrastructure/services"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*session.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, sess *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID()] = sess
	return nil
}

func (r *memSessionRepo) Update(_ context.Context, sess *session.Session) error {
	return r.Create(context.Background(), sess)
}

func (r *memSessionRepo) GetByID(_ context.Context, id string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id], nil
}

func (r *memSessionRepo) GetCurrentByChannel(_ context.Context, channelID string) (*session.Session, error) {
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

type memEventRepo struct {
	mu     sync.Mutex
	events []*event.Event
}

func (r *memEventRepo) Append(_ context.Context, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *memEventRepo) CountCompletedInWindow(context.Context, string, string, time.Time) (int64, error) {
	return 0, nil
}

func (r *memEventRepo) CountCompletedForSession(context.Context, string, string) (int64, error) {
	return 0, nil
}

func (r *memEventRepo) CountCommandsInWindow(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}

func (r *memEventRepo) byType(typ event.Type) []*event.Event {
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

type stubBroadcaster struct {
	statuses   []string
	heartbeats []string
}

func (b *stubBroadcaster) BroadcastOverlayStatus(channelID string, _ any) {
	b.statuses = append(b.statuses, channelID)
}

func (b *stubBroadcaster) BroadcastOverlayHeartbeat(channelID string, _ any) {
	b.heartbeats = append(b.heartbeats, channelID)
}

// inlineTasks runs submitted work synchronously so tests observe effects.
type inlineTasks struct{}

func (inlineTasks) Submit(_ string, fn func()) { fn() }

func TestOverlayHandler_HeartbeatKeepsConnectSession(t *testing.T) {
	sessionRepo := newMemSessionRepo()
	eventRepo := &memEventRepo{}
	log := logger.NewLogger()
	registry := usecases.NewSessionRegistryUseCase(sessionRepo, eventRepo, log)
	systemEvents := usecases.NewRecordSystemEventUseCase(eventRepo, log)
	bc := &stubBroadcaster{}

	h := NewOverlayHandler(nil, nil, registry, systemEvents, bc, inlineTasks{}, nil, log)

	// Session bound at connect time, last heartbeat well past the grace
	// window.
	t0 := time.Now().UTC().Add(-2 * session.GraceWindow)
	sess, err := registry.GetOrCreate(context.Background(), "ch_1", "str_1", t0)
	require.NoError(t, err)

	sctx := services.SocketContext{
		StreamerID: "str_1",
		ChannelID:  "ch_1",
		SessionID:  sess.ID(),
	}
	h.handleHeartbeat(sctx)

	// The socket's session survives; no boundary events were synthesized.
	current, err := sessionRepo.GetCurrentByChannel(context.Background(), "ch_1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, sess.ID(), current.ID())
	assert.Empty(t, eventRepo.byType(event.TypeSessionEnded))
	assert.Len(t, eventRepo.byType(event.TypeSessionStarted), 1)

	// The heartbeat proof carries the session the socket context holds.
	beats := eventRepo.byType(event.TypeOverlayHeartbeat)
	require.Len(t, beats, 1)
	assert.Equal(t, sess.ID(), beats[0].SessionID)
	assert.Equal(t, []string{"ch_1"}, bc.heartbeats)
}

func TestOverlayUpgraderOriginCheck(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws/overlay", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	up := newOverlayUpgrader([]string{"https://studio.adbeam.io"})
	assert.True(t, up.CheckOrigin(req("")), "non-browser clients send no Origin")
	assert.True(t, up.CheckOrigin(req("https://studio.adbeam.io")))
	assert.False(t, up.CheckOrigin(req("https://elsewhere.example.com")))

	wildcard := newOverlayUpgrader([]string{"*"})
	assert.True(t, wildcard.CheckOrigin(req("https://elsewhere.example.com")))
}
