package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/adbeam/adbeam/internal/domain/event"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/mappers"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/models"
)

type EventRepository struct {
	db     *gorm.DB
	mapper mappers.EventMapper
}

func NewEventRepository(db *gorm.DB) event.Repository {
	return &EventRepository{
		db:     db,
		mapper: mappers.NewEventMapper(),
	}
}

func (r *EventRepository) Append(ctx context.Context, evt *event.Event) error {
	model, err := r.mapper.ToModel(evt)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *EventRepository) CountCompletedInWindow(ctx context.Context, channelID, campaignID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventModel{}).
		Where("channel_id = ? AND campaign_id = ? AND type = ? AND timestamp >= ?",
			channelID, campaignID, string(event.TypeAdCompleted), since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed events in window: %w", err)
	}
	return count, nil
}

func (r *EventRepository) CountCompletedForSession(ctx context.Context, sessionID, campaignID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventModel{}).
		Where("session_id = ? AND campaign_id = ? AND type = ?",
			sessionID, campaignID, string(event.TypeAdCompleted)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed events for session: %w", err)
	}
	return count, nil
}

func (r *EventRepository) CountCommandsInWindow(ctx context.Context, campaignID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventModel{}).
		Where("campaign_id = ? AND type = ? AND timestamp >= ?",
			campaignID, string(event.TypeAdCommandSent), since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count command events in window: %w", err)
	}
	return count, nil
}
