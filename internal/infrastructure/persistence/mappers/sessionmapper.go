package mappers

import (
	"github.com/adbeam/adbeam/internal/domain/session"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/models"
)

// SessionMapper handles the conversion between Session domain entities and persistence models.
type SessionMapper interface {
	// ToModel converts a domain entity to a persistence model.
	ToModel(entity *session.Session) *models.SessionModel

	// ToDomain converts a persistence model to a domain entity.
	ToDomain(model *models.SessionModel) (*session.Session, error)
}

// SessionMapperImpl is the concrete implementation of SessionMapper.
type SessionMapperImpl struct{}

// NewSessionMapper creates a new SessionMapper.
func NewSessionMapper() SessionMapper {
	return &SessionMapperImpl{}
}

// ToModel converts a domain entity to a persistence model.
func (m *SessionMapperImpl) ToModel(entity *session.Session) *models.SessionModel {
	if entity == nil {
		return nil
	}
	return &models.SessionModel{
		ID:              entity.ID(),
		ChannelID:       entity.ChannelID(),
		StreamerID:      entity.StreamerID(),
		Status:          string(entity.Status()),
		StartedAt:       entity.StartedAt(),
		LastHeartbeatAt: entity.LastHeartbeatAt(),
		EndedAt:         entity.EndedAt(),
	}
}

// ToDomain converts a persistence model to a domain entity.
func (m *SessionMapperImpl) ToDomain(model *models.SessionModel) (*session.Session, error) {
	if model == nil {
		return nil, nil
	}
	return session.Reconstruct(
		model.ID,
		model.ChannelID,
		model.StreamerID,
		model.StartedAt,
		model.LastHeartbeatAt,
		session.Status(model.Status),
		model.EndedAt,
	)
}
