package mappers

import (
	"strings"

	"github.com/adbeam/adbeam/internal/domain/campaign"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/models"
)

// CampaignMapper converts campaign catalog persistence models to their
// domain read models. The catalog is read only here, so no ToModel
// counterparts exist for flights, creatives or assignments.
type CampaignMapper interface {
	ChannelToDomain(model *models.ChannelModel) *campaign.Channel
	AssignmentToDomain(model *models.AssignmentModel) *campaign.Assignment
	FlightToDomain(model *models.FlightModel) *campaign.Flight
	CreativeToDomain(model *models.CreativeModel) *campaign.Creative
}

// CampaignMapperImpl is the concrete implementation of CampaignMapper.
type CampaignMapperImpl struct{}

// NewCampaignMapper creates a new CampaignMapper.
func NewCampaignMapper() CampaignMapper {
	return &CampaignMapperImpl{}
}

func (m *CampaignMapperImpl) ChannelToDomain(model *models.ChannelModel) *campaign.Channel {
	if model == nil {
		return nil
	}
	return &campaign.Channel{
		ID:         model.ID,
		StreamerID: model.StreamerID,
		Name:       model.DisplayName,
		CreatedAt:  model.CreatedAt,
	}
}

func (m *CampaignMapperImpl) AssignmentToDomain(model *models.AssignmentModel) *campaign.Assignment {
	if model == nil {
		return nil
	}
	return &campaign.Assignment{
		ID:         model.ID,
		ChannelID:  model.ChannelID,
		CampaignID: model.CampaignID,
		CreatedAt:  model.CreatedAt,
	}
}

func (m *CampaignMapperImpl) FlightToDomain(model *models.FlightModel) *campaign.Flight {
	if model == nil {
		return nil
	}
	return &campaign.Flight{
		ID:                    model.ID,
		CampaignID:            model.CampaignID,
		PacingPerHour:         model.PacingPerHour,
		CapPerStreamerPerHour: model.CapPerStreamerPerHour,
		CapPerSession:         model.CapPerSession,
		AllowedFormats:        parseFormats(model.AllowedFormats),
		CreatedAt:             model.CreatedAt,
	}
}

func (m *CampaignMapperImpl) CreativeToDomain(model *models.CreativeModel) *campaign.Creative {
	if model == nil {
		return nil
	}
	return &campaign.Creative{
		ID:             model.ID,
		CampaignID:     model.CampaignID,
		Format:         campaign.CreativeFormat(model.Format),
		ApprovalStatus: campaign.ApprovalStatus(model.ApprovalStatus),
		DurationSec:    model.DurationSec,
		AssetURL:       model.AssetURL,
		ClickURL:       model.ClickURL,
		CreatedAt:      model.CreatedAt,
	}
}

// parseFormats splits the stored comma separated format list.
func parseFormats(raw string) []campaign.CreativeFormat {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	formats := make([]campaign.CreativeFormat, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			formats = append(formats, campaign.CreativeFormat(p))
		}
	}
	return formats
}

// FormatsToColumn joins formats into the stored comma separated list.
func FormatsToColumn(formats []campaign.CreativeFormat) string {
	parts := make([]string, len(formats))
	for i, f := range formats {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}
