package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/adbeam/adbeam/internal/domain/event"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/models"
)

// EventMapper handles the conversion between Event domain entities and persistence models.
type EventMapper interface {
	// ToModel converts a domain entity to a persistence model.
	ToModel(entity *event.Event) (*models.EventModel, error)

	// ToDomain converts a persistence model to a domain entity.
	ToDomain(model *models.EventModel) (*event.Event, error)
}

// EventMapperImpl is the concrete implementation of EventMapper.
type EventMapperImpl struct{}

// NewEventMapper creates a new EventMapper.
func NewEventMapper() EventMapper {
	return &EventMapperImpl{}
}

// ToModel converts a domain entity to a persistence model.
func (m *EventMapperImpl) ToModel(entity *event.Event) (*models.EventModel, error) {
	if entity == nil {
		return nil, nil
	}

	var payload datatypes.JSON
	if entity.Payload != nil {
		raw, err := json.Marshal(entity.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event payload: %w", err)
		}
		payload = datatypes.JSON(raw)
	}

	return &models.EventModel{
		ID:         entity.ID,
		Type:       string(entity.Type),
		Timestamp:  entity.Timestamp,
		RequestID:  entity.RequestID,
		StreamerID: entity.StreamerID,
		ChannelID:  entity.ChannelID,
		SessionID:  entity.SessionID,
		CampaignID: entity.CampaignID,
		CreativeID: entity.CreativeID,
		Payload:    payload,
		SourceAddr: entity.SourceAddr,
		UserAgent:  entity.UserAgent,
	}, nil
}

// ToDomain converts a persistence model to a domain entity.
func (m *EventMapperImpl) ToDomain(model *models.EventModel) (*event.Event, error) {
	if model == nil {
		return nil, nil
	}

	var payload map[string]any
	if len(model.Payload) > 0 {
		if err := json.Unmarshal(model.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event payload: %w", err)
		}
	}

	return &event.Event{
		ID:         model.ID,
		Type:       event.Type(model.Type),
		Timestamp:  model.Timestamp,
		RequestID:  model.RequestID,
		StreamerID: model.StreamerID,
		ChannelID:  model.ChannelID,
		SessionID:  model.SessionID,
		CampaignID: model.CampaignID,
		CreativeID: model.CreativeID,
		Payload:    payload,
		SourceAddr: model.SourceAddr,
		UserAgent:  model.UserAgent,
	}, nil
}
