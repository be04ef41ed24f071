package usecases

import (
	"context"
	"time"

	"github.com/adbeam/adbeam/internal/application/delivery/dto"
	overlayusecases "github.com/adbeam/adbeam/internal/application/overlay/usecases"
	"github.com/adbeam/adbeam/internal/domain/campaign"
	"github.com/adbeam/adbeam/internal/domain/delivery"
	"github.com/adbeam/adbeam/internal/domain/event"
	"github.com/adbeam/adbeam/internal/domain/session"
	"github.com/adbeam/adbeam/internal/shared/authorization"
	"github.com/adbeam/adbeam/internal/shared/errors"
	"github.com/adbeam/adbeam/internal/shared/id"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

// CommandPusher delivers a command to a channel's live overlay sockets.
type CommandPusher interface {
	Push(channelID string, cmd *delivery.Command) bool
}

// OperatorBroadcaster notifies dashboards of committed dispatches.
type OperatorBroadcaster interface {
	BroadcastDeliverySent(channelID string, data any)
}

// TaskRunner schedules best-effort side work off the request path.
type TaskRunner interface {
	Submit(name string, fn func())
}

// MetricsRecorder counts dispatch outcomes.
type MetricsRecorder interface {
	DeliveryCommand(result string)
}

// SystemEventRecorder appends server-synthesized proof events.
type SystemEventRecorder interface {
	Execute(ctx context.Context, params overlayusecases.SystemEventParams) error
}

// Metric result labels for dispatch outcomes.
const (
	resultSent            = "sent"
	resultFailedNoOverlay = "failed_no_overlay"
	resultBlockedPrefix   = "blocked_"
)

// TriggerDeliveryUseCase orchestrates one ad dispatch end to end:
// assignment resolution, session check, creative selection, pacing
// evaluation, push, proof recording.
type TriggerDeliveryUseCase struct {
	channelRepo    campaign.ChannelRepository
	assignmentRepo campaign.AssignmentRepository
	flightRepo     campaign.FlightRepository
	creativeRepo   campaign.CreativeRepository
	sessionRepo    session.Repository
	eventRepo      event.Repository
	systemEvents   SystemEventRecorder
	pusher         CommandPusher
	broadcaster    OperatorBroadcaster
	metrics        MetricsRecorder
	tasks          TaskRunner
	logger         logger.Interface
}

// NewTriggerDeliveryUseCase creates a new trigger delivery use case.
func NewTriggerDeliveryUseCase(
	channelRepo campaign.ChannelRepository,
	assignmentRepo campaign.AssignmentRepository,
	flightRepo campaign.FlightRepository,
	creativeRepo campaign.CreativeRepository,
	sessionRepo session.Repository,
	eventRepo event.Repository,
	systemEvents SystemEventRecorder,
	pusher CommandPusher,
	broadcaster OperatorBroadcaster,
	metrics MetricsRecorder,
	tasks TaskRunner,
	logger logger.Interface,
) *TriggerDeliveryUseCase {
	return &TriggerDeliveryUseCase{
		channelRepo:    channelRepo,
		assignmentRepo: assignmentRepo,
		flightRepo:     flightRepo,
		creativeRepo:   creativeRepo,
		sessionRepo:    sessionRepo,
		eventRepo:      eventRepo,
		systemEvents:   systemEvents,
		pusher:         pusher,
		broadcaster:    broadcaster,
		metrics:        metrics,
		tasks:          tasks,
		logger:         logger,
	}
}

// Execute runs the dispatch pipeline. Every resolution step is a hard
// failure with a specific reason; candidate-selection proof and the
// dashboard broadcast are best effort.
func (uc *TriggerDeliveryUseCase) Execute(ctx context.Context, request dto.TriggerDeliveryRequest) (*dto.TriggerDeliveryResponse, error) {
	role := authorization.ParseRole(request.ActorRole)
	if err := authorization.RequireCapability(role, authorization.CapabilityTriggerDelivery); err != nil {
		return nil, err
	}

	channel, err := uc.channelRepo.GetByID(ctx, request.ChannelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, errors.NewNotFoundError("channel not found")
	}

	assignment, err := uc.assignmentRepo.GetLatestForChannel(ctx, channel.ID, request.CampaignID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, errors.NewBadRequestError("no assignment for channel")
	}

	flight, err := uc.flightRepo.GetLatestForCampaign(ctx, assignment.CampaignID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, errors.NewBadRequestError("no flight for campaign")
	}

	sess, err := uc.sessionRepo.GetCurrentByChannel(ctx, channel.ID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.IsEnded() {
		return nil, errors.NewBadRequestError("no active session for channel")
	}

	creative, err := uc.resolveCreative(ctx, request.CreativeID, assignment.CampaignID, flight.AllowedFormats)
	if err != nil {
		return nil, err
	}
	if creative == nil {
		return nil, errors.NewBadRequestError("no approved creative for campaign")
	}

	uc.tasks.Submit("proof.ad_candidate_selected", func() {
		softCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.systemEvents.Execute(softCtx, overlayusecases.SystemEventParams{
			Type:       event.TypeAdCandidateSelected,
			StreamerID: channel.StreamerID,
			ChannelID:  channel.ID,
			SessionID:  sess.ID(),
			CampaignID: assignment.CampaignID,
			CreativeID: creative.ID,
		}); err != nil {
			uc.logger.Warn("failed to record candidate selection", "error", err)
		}
	})

	decision, err := uc.evaluatePacing(ctx, channel.ID, sess.ID(), assignment.CampaignID, flight)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		uc.metrics.DeliveryCommand(resultBlockedPrefix + decision.Reason)
		return nil, errors.NewBadRequestError("blocked by pacing rules: " + decision.Reason)
	}

	cmd := &delivery.Command{
		CommandID:   id.NewCommandID(),
		CampaignID:  assignment.CampaignID,
		CreativeID:  creative.ID,
		DurationSec: resolveDuration(request.DurationSec, creative.DurationSec),
		AssetURL:    creative.AssetURL,
		ClickURL:    creative.ClickURL,
		Animation:   delivery.AnimationFade,
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if !uc.pusher.Push(channel.ID, cmd) {
		uc.metrics.DeliveryCommand(resultFailedNoOverlay)
		return nil, errors.NewBadRequestError("overlay not connected")
	}

	// The push committed the dispatch; nothing past this point may turn
	// the result into a failure.
	if err := uc.systemEvents.Execute(ctx, overlayusecases.SystemEventParams{
		Type:       event.TypeAdCommandSent,
		StreamerID: channel.StreamerID,
		ChannelID:  channel.ID,
		SessionID:  sess.ID(),
		CampaignID: assignment.CampaignID,
		CreativeID: creative.ID,
		Payload:    map[string]any{"commandId": cmd.CommandID, "durationSec": cmd.DurationSec},
	}); err != nil {
		uc.logger.Error("failed to record command sent event",
			"command_id", cmd.CommandID,
			"error", err,
		)
	}

	uc.metrics.DeliveryCommand(resultSent)

	channelID := channel.ID
	uc.tasks.Submit("broadcast.delivery_sent", func() {
		uc.broadcaster.BroadcastDeliverySent(channelID, map[string]any{
			"commandId":  cmd.CommandID,
			"campaignId": cmd.CampaignID,
			"creativeId": cmd.CreativeID,
		})
	})

	uc.logger.Info("delivery dispatched",
		"command_id", cmd.CommandID,
		"channel_id", channel.ID,
		"campaign_id", assignment.CampaignID,
		"creative_id", creative.ID,
	)

	return &dto.TriggerDeliveryResponse{
		CommandID:  cmd.CommandID,
		ChannelID:  channel.ID,
		CampaignID: assignment.CampaignID,
		CreativeID: creative.ID,
		SessionID:  sess.ID(),
	}, nil
}

// resolveCreative picks the explicit creative when requested, otherwise the
// oldest approved creative in an allowed format.
func (uc *TriggerDeliveryUseCase) resolveCreative(ctx context.Context, creativeID, campaignID string, formats []campaign.CreativeFormat) (*campaign.Creative, error) {
	if creativeID != "" {
		return uc.creativeRepo.GetApprovedByID(ctx, creativeID, campaignID)
	}
	return uc.creativeRepo.GetOldestApproved(ctx, campaignID, formats)
}

// evaluatePacing reads the three counters over a sliding trailing hour and
// applies the flight's caps. Counts are read without transactional
// isolation; concurrent dispatches can overshoot a cap by one, which is an
// accepted bound.
func (uc *TriggerDeliveryUseCase) evaluatePacing(ctx context.Context, channelID, sessionID, campaignID string, flight *campaign.Flight) (delivery.Decision, error) {
	since := time.Now().UTC().Add(-time.Hour)

	hourly, err := uc.eventRepo.CountCompletedInWindow(ctx, channelID, campaignID, since)
	if err != nil {
		return delivery.Decision{}, err
	}
	perSession, err := uc.eventRepo.CountCompletedForSession(ctx, sessionID, campaignID)
	if err != nil {
		return delivery.Decision{}, err
	}
	commands, err := uc.eventRepo.CountCommandsInWindow(ctx, campaignID, since)
	if err != nil {
		return delivery.Decision{}, err
	}

	return delivery.EvaluateDeliveryCaps(
		delivery.PacingInputs{
			HourlyDelivered:        hourly,
			SessionDelivered:       perSession,
			CampaignHourlyCommands: commands,
		},
		delivery.Caps{
			CapPerStreamerPerHour: flight.CapPerStreamerPerHour,
			CapPerSession:         flight.CapPerSession,
			PacingPerHour:         flight.PacingPerHour,
		},
	), nil
}

// resolveDuration applies the caller override, falls back to the creative
// default, and clamps to the renderable range.
func resolveDuration(override, creativeDefault int) int {
	d := override
	if d == 0 {
		d = creativeDefault
	}
	if d == 0 {
		d = delivery.DefaultDurationSec
	}
	if d < delivery.MinDurationSec {
		d = delivery.MinDurationSec
	}
	if d > delivery.MaxDurationSec {
		d = delivery.MaxDurationSec
	}
	return d
}
