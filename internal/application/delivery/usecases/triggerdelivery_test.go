package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adbeam/adbeam/internal/application/delivery/dto"
	"github.com/adbeam/adbeam/internal/domain/campaign"
	deliverydomain "github.com/adbeam/adbeam/internal/domain/delivery"
	"github.com/adbeam/adbeam/internal/domain/event"
	"github.com/adbeam/adbeam/internal/domain/session"
	"github.com/adbeam/adbeam/internal/shared/errors"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

type dispatchHarness struct {
	uc           *TriggerDeliveryUseCase
	sessionRepo  *fakeSessionRepo
	eventRepo    *stubEventRepo
	systemEvents *fakeSystemEvents
	pusher       *fakePusher
	broadcaster  *fakeBroadcaster
	metrics      *fakeMetrics
}

func newDispatchHarness(t *testing.T) *dispatchHarness {
	t.Helper()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess, err := session.NewSession("ses_live", "ch_1", "str_1", now)
	require.NoError(t, err)

	h := &dispatchHarness{
		sessionRepo:  &fakeSessionRepo{current: sess},
		eventRepo:    &stubEventRepo{},
		systemEvents: &fakeSystemEvents{},
		pusher:       &fakePusher{connected: true},
		broadcaster:  &fakeBroadcaster{},
		metrics:      newFakeMetrics(),
	}

	channelRepo := &fakeChannelRepo{channels: map[string]*campaign.Channel{
		"ch_1": {ID: "ch_1", StreamerID: "str_1", Name: "main"},
	}}
	assignmentRepo := &fakeAssignmentRepo{assignment: &campaign.Assignment{
		ID: "asg_1", ChannelID: "ch_1", CampaignID: "cmp_1",
	}}
	flightRepo := &fakeFlightRepo{flight: &campaign.Flight{
		ID:                    "flt_1",
		CampaignID:            "cmp_1",
		PacingPerHour:         20,
		CapPerStreamerPerHour: 6,
		CapPerSession:         30,
		AllowedFormats:        []campaign.CreativeFormat{campaign.FormatImage, campaign.FormatGIF},
	}}
	creativeRepo := &fakeCreativeRepo{creatives: []*campaign.Creative{
		{
			ID:             "crt_new",
			CampaignID:     "cmp_1",
			Format:         campaign.FormatGIF,
			ApprovalStatus: campaign.ApprovalApproved,
			DurationSec:    20,
			AssetURL:       "https://cdn.example.com/new.gif",
			CreatedAt:      now,
		},
		{
			ID:             "crt_old",
			CampaignID:     "cmp_1",
			Format:         campaign.FormatImage,
			ApprovalStatus: campaign.ApprovalApproved,
			DurationSec:    10,
			AssetURL:       "https://cdn.example.com/old.png",
			ClickURL:       "https://brand.example.com",
			CreatedAt:      now.Add(-time.Hour),
		},
		{
			ID:             "crt_draft",
			CampaignID:     "cmp_1",
			Format:         campaign.FormatImage,
			ApprovalStatus: campaign.ApprovalDraft,
			AssetURL:       "https://cdn.example.com/draft.png",
			CreatedAt:      now.Add(-2 * time.Hour),
		},
	}}

	h.uc = NewTriggerDeliveryUseCase(
		channelRepo,
		assignmentRepo,
		flightRepo,
		creativeRepo,
		h.sessionRepo,
		h.eventRepo,
		h.systemEvents,
		h.pusher,
		h.broadcaster,
		h.metrics,
		syncTasks{},
		logger.NewLogger(),
	)
	return h
}

func operatorRequest() dto.TriggerDeliveryRequest {
	return dto.TriggerDeliveryRequest{
		ChannelID: "ch_1",
		ActorID:   "usr_op",
		ActorRole: "agency",
	}
}

func TestTriggerDelivery_DispatchesOldestApprovedCreative(t *testing.T) {
	h := newDispatchHarness(t)
	h.eventRepo.hourly = 2
	h.eventRepo.session = 3
	h.eventRepo.commands = 10

	resp, err := h.uc.Execute(context.Background(), operatorRequest())
	require.NoError(t, err)

	assert.Equal(t, "ch_1", resp.ChannelID)
	assert.Equal(t, "cmp_1", resp.CampaignID)
	assert.Equal(t, "crt_old", resp.CreativeID)
	assert.Equal(t, "ses_live", resp.SessionID)
	assert.NotEmpty(t, resp.CommandID)

	require.Len(t, h.pusher.pushed, 1)
	cmd := h.pusher.pushed[0]
	assert.Equal(t, resp.CommandID, cmd.CommandID)
	assert.Equal(t, 10, cmd.DurationSec)
	assert.Equal(t, "https://cdn.example.com/old.png", cmd.AssetURL)
	assert.Equal(t, deliverydomain.AnimationFade, cmd.Animation)

	sent := h.systemEvents.byType(event.TypeAdCommandSent)
	require.Len(t, sent, 1)
	assert.Equal(t, "ses_live", sent[0].SessionID)
	assert.Equal(t, resp.CommandID, sent[0].Payload["commandId"])

	candidates := h.systemEvents.byType(event.TypeAdCandidateSelected)
	require.Len(t, candidates, 1)
	assert.Equal(t, "crt_old", candidates[0].CreativeID)

	assert.Equal(t, 1, h.metrics.counts["sent"])
	assert.Equal(t, []string{"ch_1"}, h.broadcaster.sent)
}

func TestTriggerDelivery_ExplicitCreativeAndDurationOverride(t *testing.T) {
	h := newDispatchHarness(t)

	req := operatorRequest()
	req.CreativeID = "crt_new"
	req.DurationSec = 45

	resp, err := h.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "crt_new", resp.CreativeID)

	require.Len(t, h.pusher.pushed, 1)
	assert.Equal(t, 45, h.pusher.pushed[0].DurationSec)
}

func TestTriggerDelivery_DurationClampedToRenderableRange(t *testing.T) {
	h := newDispatchHarness(t)

	req := operatorRequest()
	req.DurationSec = 600

	_, err := h.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, h.pusher.pushed, 1)
	assert.Equal(t, deliverydomain.MaxDurationSec, h.pusher.pushed[0].DurationSec)
}

func TestTriggerDelivery_StreamerHourlyCapBlocksBeforePush(t *testing.T) {
	h := newDispatchHarness(t)
	h.eventRepo.hourly = 6
	h.eventRepo.session = 1
	h.eventRepo.commands = 1

	_, err := h.uc.Execute(context.Background(), operatorRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), deliverydomain.ReasonStreamerHourlyCapReached)

	assert.Empty(t, h.pusher.pushed)
	assert.Empty(t, h.systemEvents.byType(event.TypeAdCommandSent))
	assert.Equal(t, 1, h.metrics.counts["blocked_streamer_hourly_cap_reached"])
	assert.Zero(t, h.metrics.counts["sent"])
	assert.Empty(t, h.broadcaster.sent)
}

func TestTriggerDelivery_SessionCapAtLimitBlocks(t *testing.T) {
	h := newDispatchHarness(t)
	h.eventRepo.session = 30

	_, err := h.uc.Execute(context.Background(), operatorRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), deliverydomain.ReasonSessionCapReached)
	assert.Equal(t, 1, h.metrics.counts["blocked_session_cap_reached"])
}

func TestTriggerDelivery_OverlayNotConnected(t *testing.T) {
	h := newDispatchHarness(t)
	h.pusher.connected = false

	_, err := h.uc.Execute(context.Background(), operatorRequest())
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
	assert.Contains(t, appErr.Message, "not connected")

	assert.Empty(t, h.systemEvents.byType(event.TypeAdCommandSent))
	assert.Equal(t, 1, h.metrics.counts["failed_no_overlay"])
	assert.Empty(t, h.broadcaster.sent)
}

func TestTriggerDelivery_NoActiveSession(t *testing.T) {
	h := newDispatchHarness(t)
	require.NoError(t, h.sessionRepo.current.Finalize())

	_, err := h.uc.Execute(context.Background(), operatorRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active session")
	assert.Empty(t, h.pusher.pushed)
}

func TestTriggerDelivery_UnknownChannel(t *testing.T) {
	h := newDispatchHarness(t)

	req := operatorRequest()
	req.ChannelID = "ch_missing"

	_, err := h.uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestTriggerDelivery_NoAssignmentForCampaign(t *testing.T) {
	h := newDispatchHarness(t)

	req := operatorRequest()
	req.CampaignID = "cmp_other"

	_, err := h.uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no assignment")
}

func TestTriggerDelivery_ExplicitUnapprovedCreativeRejected(t *testing.T) {
	h := newDispatchHarness(t)

	req := operatorRequest()
	req.CreativeID = "crt_draft"

	_, err := h.uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no approved creative")
	assert.Empty(t, h.pusher.pushed)
}

func TestTriggerDelivery_RoleWithoutCapabilityForbidden(t *testing.T) {
	h := newDispatchHarness(t)

	req := operatorRequest()
	req.ActorRole = "streamer"

	_, err := h.uc.Execute(context.Background(), req)
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
	assert.Empty(t, h.pusher.pushed)
}
