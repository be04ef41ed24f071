package usecases

import (
	"context"
	"sync"
	"time"

	overlayusecases "github.com/adbeam/adbeam/internal/application/overlay/usecases"
	"github.com/adbeam/adbeam/internal/domain/campaign"
	"github.com/adbeam/adbeam/internal/domain/delivery"
	"github.com/adbeam/adbeam/internal/domain/event"
	"github.com/adbeam/adbeam/internal/domain/session"
)

type fakeChannelRepo struct {
	channels map[string]*campaign.Channel
}

func (r *fakeChannelRepo) GetByID(_ context.Context, id string) (*campaign.Channel, error) {
	return r.channels[id], nil
}

type fakeAssignmentRepo struct {
	assignment *campaign.Assignment
}

func (r *fakeAssignmentRepo) GetLatestForChannel(_ context.Context, channelID, campaignID string) (*campaign.Assignment, error) {
	if r.assignment == nil || r.assignment.ChannelID != channelID {
		return nil, nil
	}
	if campaignID != "" && r.assignment.CampaignID != campaignID {
		return nil, nil
	}
	return r.assignment, nil
}

type fakeFlightRepo struct {
	flight *campaign.Flight
}

func (r *fakeFlightRepo) GetLatestForCampaign(_ context.Context, campaignID string) (*campaign.Flight, error) {
	if r.flight == nil || r.flight.CampaignID != campaignID {
		return nil, nil
	}
	return r.flight, nil
}

type fakeCreativeRepo struct {
	creatives []*campaign.Creative
}

func (r *fakeCreativeRepo) GetApprovedByID(_ context.Context, id, campaignID string) (*campaign.Creative, error) {
	for _, c := range r.creatives {
		if c.ID == id && c.CampaignID == campaignID && c.ApprovalStatus == campaign.ApprovalApproved {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCreativeRepo) GetOldestApproved(_ context.Context, campaignID string, formats []campaign.CreativeFormat) (*campaign.Creative, error) {
	allowed := make(map[campaign.CreativeFormat]bool, len(formats))
	for _, f := range formats {
		allowed[f] = true
	}
	var oldest *campaign.Creative
	for _, c := range r.creatives {
		if c.CampaignID != campaignID || c.ApprovalStatus != campaign.ApprovalApproved {
			continue
		}
		if len(formats) > 0 && !allowed[c.Format] {
			continue
		}
		if oldest == nil || c.CreatedAt.Before(oldest.CreatedAt) {
			oldest = c
		}
	}
	return oldest, nil
}

type fakeSessionRepo struct {
	current *session.Session
}

func (r *fakeSessionRepo) Create(_ context.Context, _ *session.Session) error { return nil }
func (r *fakeSessionRepo) Update(_ context.Context, _ *session.Session) error { return nil }
func (r *fakeSessionRepo) GetByID(_ context.Context, _ string) (*session.Session, error) {
	return r.current, nil
}
func (r *fakeSessionRepo) GetCurrentByChannel(_ context.Context, _ string) (*session.Session, error) {
	return r.current, nil
}

// stubEventRepo returns configured counters and records appends.
type stubEventRepo struct {
	mu       sync.Mutex
	hourly   int64
	session  int64
	commands int64
	appended []*event.Event
}

func (r *stubEventRepo) Append(_ context.Context, evt *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appended = append(r.appended, evt)
	return nil
}

func (r *stubEventRepo) CountCompletedInWindow(_ context.Context, _, _ string, _ time.Time) (int64, error) {
	return r.hourly, nil
}

func (r *stubEventRepo) CountCompletedForSession(_ context.Context, _, _ string) (int64, error) {
	return r.session, nil
}

func (r *stubEventRepo) CountCommandsInWindow(_ context.Context, _ string, _ time.Time) (int64, error) {
	return r.commands, nil
}

// fakeSystemEvents records synthesized proof events.
type fakeSystemEvents struct {
	mu     sync.Mutex
	params []overlayusecases.SystemEventParams
}

func (f *fakeSystemEvents) Execute(_ context.Context, params overlayusecases.SystemEventParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, params)
	return nil
}

func (f *fakeSystemEvents) byType(typ event.Type) []overlayusecases.SystemEventParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []overlayusecases.SystemEventParams
	for _, p := range f.params {
		if p.Type == typ {
			out = append(out, p)
		}
	}
	return out
}

type fakePusher struct {
	connected bool
	pushed    []*delivery.Command
}

func (p *fakePusher) Push(_ string, cmd *delivery.Command) bool {
	if !p.connected {
		return false
	}
	p.pushed = append(p.pushed, cmd)
	return true
}

type fakeBroadcaster struct {
	sent []string
}

func (b *fakeBroadcaster) BroadcastDeliverySent(channelID string, _ any) {
	b.sent = append(b.sent, channelID)
}

type fakeMetrics struct {
	counts map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counts: make(map[string]int)}
}

func (m *fakeMetrics) DeliveryCommand(result string) {
	m.counts[result]++
}

// syncTasks runs submitted work inline for deterministic assertions.
type syncTasks struct{}

func (syncTasks) Submit(_ string, fn func()) { fn() }
