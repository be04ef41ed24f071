package usecases

import (
	"context"
	"time"

	"github.com/adbeam/adbeam/internal/domain/event"
	"github.com/adbeam/adbeam/internal/shared/id"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

// SystemEventParams describes a server-synthesized proof event.
type SystemEventParams struct {
	Type       event.Type
	RequestID  string
	StreamerID string
	ChannelID  string
	SessionID  string
	CampaignID string
	CreativeID string
	Payload    map[string]any
}

// RecordSystemEventUseCase appends proof events synthesized by the server
// itself, as opposed to client-submitted telemetry.
type RecordSystemEventUseCase struct {
	eventRepo event.Repository
	logger    logger.Interface
}

// NewRecordSystemEventUseCase creates a new record system event use case.
func NewRecordSystemEventUseCase(eventRepo event.Repository, logger logger.Interface) *RecordSystemEventUseCase {
	return &RecordSystemEventUseCase{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// Execute appends the event. Callers on a soft path wrap this in a
// background task and ignore the error.
func (uc *RecordSystemEventUseCase) Execute(ctx context.Context, params SystemEventParams) error {
	requestID := params.RequestID
	if requestID == "" {
		requestID = id.NewSystemRequestID()
	}

	evt := &event.Event{
		ID:         id.NewEventID(),
		Type:       params.Type,
		Timestamp:  time.Now().UTC(),
		RequestID:  requestID,
		StreamerID: params.StreamerID,
		ChannelID:  params.ChannelID,
		SessionID:  params.SessionID,
		CampaignID: params.CampaignID,
		CreativeID: params.CreativeID,
		Payload:    params.Payload,
	}
	if err := evt.Validate(); err != nil {
		return err
	}
	return uc.eventRepo.Append(ctx, evt)
}
