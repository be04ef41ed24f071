package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adbeam/adbeam/internal/domain/campaign"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/mappers"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/models"
)

type ChannelRepository struct {
	db     *gorm.DB
	mapper mappers.CampaignMapper
}

func NewChannelRepository(db *gorm.DB) campaign.ChannelRepository {
	return &ChannelRepository{
		db:     db,
		mapper: mappers.NewCampaignMapper(),
	}
}

func (r *ChannelRepository) GetByID(ctx context.Context, id string) (*campaign.Channel, error) {
	var model models.ChannelModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get channel by ID: %w", err)
	}
	return r.mapper.ChannelToDomain(&model), nil
}

type AssignmentRepository struct {
	db     *gorm.DB
	mapper mappers.CampaignMapper
}

func NewAssignmentRepository(db *gorm.DB) campaign.AssignmentRepository {
	return &AssignmentRepository{
		db:     db,
		mapper: mappers.NewCampaignMapper(),
	}
}

func (r *AssignmentRepository) GetLatestForChannel(ctx context.Context, channelID, campaignID string) (*campaign.Assignment, error) {
	query := r.db.WithContext(ctx).
		Where("channel_id = ? AND active = ?", channelID, true)
	if campaignID != "" {
		query = query.Where("campaign_id = ?", campaignID)
	}

	var model models.AssignmentModel
	err := query.Order("created_at DESC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest assignment for channel: %w", err)
	}
	return r.mapper.AssignmentToDomain(&model), nil
}

type FlightRepository struct {
	db     *gorm.DB
	mapper mappers.CampaignMapper
}

func NewFlightRepository(db *gorm.DB) campaign.FlightRepository {
	return &FlightRepository{
		db:     db,
		mapper: mappers.NewCampaignMapper(),
	}
}

func (r *FlightRepository) GetLatestForCampaign(ctx context.Context, campaignID string) (*campaign.Flight, error) {
	var model models.FlightModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest flight for campaign: %w", err)
	}
	return r.mapper.FlightToDomain(&model), nil
}

type CreativeRepository struct {
	db     *gorm.DB
	mapper mappers.CampaignMapper
}

func NewCreativeRepository(db *gorm.DB) campaign.CreativeRepository {
	return &CreativeRepository{
		db:     db,
		mapper: mappers.NewCampaignMapper(),
	}
}

func (r *CreativeRepository) GetApprovedByID(ctx context.Context, id, campaignID string) (*campaign.Creative, error) {
	var model models.CreativeModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND campaign_id = ? AND approval_status = ?",
			id, campaignID, string(campaign.ApprovalApproved)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get approved creative by ID: %w", err)
	}
	return r.mapper.CreativeToDomain(&model), nil
}

func (r *CreativeRepository) GetOldestApproved(ctx context.Context, campaignID string, formats []campaign.CreativeFormat) (*campaign.Creative, error) {
	query := r.db.WithContext(ctx).
		Where("campaign_id = ? AND approval_status = ?",
			campaignID, string(campaign.ApprovalApproved))
	if len(formats) > 0 {
		names := make([]string, len(formats))
		for i, f := range formats {
			names[i] = string(f)
		}
		query = query.Where("format IN ?", names)
	}

	var model models.CreativeModel
	err := query.Order("created_at ASC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get oldest approved creative: %w", err)
	}
	return r.mapper.CreativeToDomain(&model), nil
}
