package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/adbeam/adbeam/internal/application/overlay/dto"
	"github.com/adbeam/adbeam/internal/domain/event"
	"github.com/adbeam/adbeam/internal/shared/errors"
	"github.com/adbeam/adbeam/internal/shared/id"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

// IngestEventUseCase handles telemetry submitted by overlay clients over
// HTTP. Events default to the identity resolved from the overlay key; a
// client-supplied channel or streamer id overrides it.
type IngestEventUseCase struct {
	validator   *ValidateCredentialUseCase
	registry    *SessionRegistryUseCase
	eventRepo   event.Repository
	metrics     MetricsRecorder
	broadcaster OperatorBroadcaster
	tasks       TaskRunner
	logger      logger.Interface
}

// NewIngestEventUseCase creates a new ingest event use case.
func NewIngestEventUseCase(
	validator *ValidateCredentialUseCase,
	registry *SessionRegistryUseCase,
	eventRepo event.Repository,
	metrics MetricsRecorder,
	broadcaster OperatorBroadcaster,
	tasks TaskRunner,
	logger logger.Interface,
) *IngestEventUseCase {
	return &IngestEventUseCase{
		validator:   validator,
		registry:    registry,
		eventRepo:   eventRepo,
		metrics:     metrics,
		broadcaster: broadcaster,
		tasks:       tasks,
		logger:      logger,
	}
}

// Execute authenticates, validates, applies session transitions and
// appends the event.
func (uc *IngestEventUseCase) Execute(ctx context.Context, request dto.IngestEventRequest) (*dto.IngestEventResponse, error) {
	identity, err := uc.validator.Execute(ctx, request.OverlayKey)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, errors.NewUnauthorizedError("invalid overlay key")
	}

	typ := event.Type(request.Type)
	if !typ.IsValid() {
		return nil, errors.NewValidationError("unknown event type", request.Type)
	}
	if request.RequestID == "" {
		return nil, errors.NewValidationError("request_id is required")
	}
	if err := event.ValidatePayload(request.Payload); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ts := now
	if request.Timestamp != nil {
		ts = request.Timestamp.UTC()
	}

	channelID := identity.ChannelID
	if request.ChannelID != "" {
		channelID = request.ChannelID
	}
	streamerID := identity.StreamerID
	if request.StreamerID != "" {
		streamerID = request.StreamerID
	}

	sessionID, err := uc.applySessionTransition(ctx, typ, channelID, streamerID, request.SessionID, now)
	if err != nil {
		return nil, err
	}

	evt := &event.Event{
		ID:         request.ID,
		Type:       typ,
		Timestamp:  ts,
		RequestID:  request.RequestID,
		StreamerID: streamerID,
		ChannelID:  channelID,
		SessionID:  sessionID,
		CampaignID: request.CampaignID,
		CreativeID: request.CreativeID,
		Payload:    request.Payload,
		SourceAddr: request.SourceAddr,
		UserAgent:  request.UserAgent,
	}
	if evt.ID == "" {
		evt.ID = id.NewEventID()
	}
	if err := evt.Validate(); err != nil {
		return nil, err
	}

	if err := uc.eventRepo.Append(ctx, evt); err != nil {
		uc.logger.Error("failed to append event", "type", typ, "error", err)
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	uc.metrics.EventIngested(string(typ))
	uc.notifyDashboards(typ, channelID, sessionID, ts)

	return &dto.IngestEventResponse{ID: evt.ID, SessionID: sessionID}, nil
}

// applySessionTransition runs the registry transition implied by the event
// type and returns the session ID the event should be tagged with.
func (uc *IngestEventUseCase) applySessionTransition(ctx context.Context, typ event.Type, channelID, streamerID, claimedSessionID string, now time.Time) (string, error) {
	switch typ {
	case event.TypeOverlayConnected, event.TypeOverlayHeartbeat:
		sess, err := uc.registry.GetOrCreate(ctx, channelID, streamerID, now)
		if err != nil {
			return "", err
		}
		return sess.ID(), nil

	case event.TypeOverlayDisconnected:
		sess, err := uc.registry.RecordDisconnect(ctx, channelID, now)
		if err != nil {
			return "", err
		}
		if sess == nil {
			return claimedSessionID, nil
		}
		return sess.ID(), nil

	default:
		if claimedSessionID != "" {
			return claimedSessionID, nil
		}
		sess, err := uc.registry.Current(ctx, channelID)
		if err != nil {
			return "", err
		}
		if sess == nil || sess.IsEnded() {
			return "", nil
		}
		return sess.ID(), nil
	}
}

// notifyDashboards pushes the operator-facing broadcast for lifecycle
// events. Best effort off the request path.
func (uc *IngestEventUseCase) notifyDashboards(typ event.Type, channelID, sessionID string, ts time.Time) {
	switch typ {
	case event.TypeOverlayConnected, event.TypeOverlayDisconnected:
		connected := typ == event.TypeOverlayConnected
		uc.tasks.Submit("broadcast.overlay_status", func() {
			uc.broadcaster.BroadcastOverlayStatus(channelID, map[string]any{
				"connected": connected,
				"sessionId": sessionID,
			})
		})
	case event.TypeOverlayHeartbeat:
		uc.tasks.Submit("broadcast.overlay_heartbeat", func() {
			uc.broadcaster.BroadcastOverlayHeartbeat(channelID, map[string]any{
				"sessionId": sessionID,
				"ts":        ts.Unix(),
			})
		})
	}
}
