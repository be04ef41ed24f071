package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adbeam/adbeam/internal/domain/credential"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/mappers"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/models"
)

type CredentialRepository struct {
	db     *gorm.DB
	mapper mappers.CredentialMapper
}

func NewCredentialRepository(db *gorm.DB) credential.Repository {
	return &CredentialRepository{
		db:     db,
		mapper: mappers.NewCredentialMapper(),
	}
}

func (r *CredentialRepository) Upsert(ctx context.Context, cred *credential.Credential) error {
	model := r.mapper.ToModel(cred)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"key_hash", "key_prefix", "rotated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) ResolveIdentity(ctx context.Context, keyHash string) (*credential.Identity, error) {
	var row struct {
		ChannelID  string
		StreamerID string
	}
	err := r.db.WithContext(ctx).
		Model(&models.CredentialModel{}).
		Select("overlay_credentials.channel_id, channels.streamer_id").
		Joins("JOIN channels ON channels.id = overlay_credentials.channel_id").
		Where("overlay_credentials.key_hash = ?", keyHash).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve credential identity: %w", err)
	}
	return &credential.Identity{
		ChannelID:  row.ChannelID,
		StreamerID: row.StreamerID,
	}, nil
}
