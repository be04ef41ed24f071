package mappers

import (
	"github.com/adbeam/adbeam/internal/domain/credential"
	"github.com/adbeam/adbeam/internal/infrastructure/persistence/models"
)

// CredentialMapper handles the conversion between Credential domain entities and persistence models.
type CredentialMapper interface {
	// ToModel converts a domain entity to a persistence model.
	ToModel(entity *credential.Credential) *models.CredentialModel

	// ToDomain converts a persistence model to a domain entity.
	ToDomain(model *models.CredentialModel) (*credential.Credential, error)
}

// CredentialMapperImpl is the concrete implementation of CredentialMapper.
type CredentialMapperImpl struct{}

// NewCredentialMapper creates a new CredentialMapper.
func NewCredentialMapper() CredentialMapper {
	return &CredentialMapperImpl{}
}

// ToModel converts a domain entity to a persistence model. The plaintext
// key never reaches the model.
func (m *CredentialMapperImpl) ToModel(entity *credential.Credential) *models.CredentialModel {
	if entity == nil {
		return nil
	}
	return &models.CredentialModel{
		ChannelID: entity.ChannelID(),
		KeyHash:   entity.KeyHash(),
		KeyPrefix: entity.KeyPrefix(),
		RotatedAt: entity.RotatedAt(),
		CreatedAt: entity.CreatedAt(),
	}
}

// ToDomain converts a persistence model to a domain entity.
func (m *CredentialMapperImpl) ToDomain(model *models.CredentialModel) (*credential.Credential, error) {
	if model == nil {
		return nil, nil
	}
	return credential.Reconstruct(
		model.ChannelID,
		model.KeyHash,
		model.KeyPrefix,
		model.RotatedAt,
		model.CreatedAt,
	)
}
