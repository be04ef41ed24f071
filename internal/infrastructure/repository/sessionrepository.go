package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adbeam/adbeam/internal/domain/session"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/mappers"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/models"
)

type SessionRepository struct {
	db     *gorm.DB
	mapper mappers.SessionMapper
}

func NewSessionRepository(db *gorm.DB) session.Repository {
	return &SessionRepository{
		db:     db,
		mapper: mappers.NewSessionMapper(),
	}
}

func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	model := r.mapper.ToModel(sess)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Update(ctx context.Context, sess *session.Session) error {
	model := r.mapper.ToModel(sess)
	result := r.db.WithContext(ctx).
		Model(&models.SessionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":            model.Status,
			"last_heartbeat_at": model.LastHeartbeatAt,
			"ended_at":          model.EndedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session %s not found", model.ID)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	var model models.SessionModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *SessionRepository) GetCurrentByChannel(ctx context.Context, channelID string) (*session.Session, error) {
	var model models.SessionModel
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("started_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current session for channel: %w", err)
	}
	return r.mapper.ToDomain(&model)
}
