package usecases

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/adbeam/adbeam/internal/application/overlay/dto"
	"github.com/adbeam/adbeam/internal/domain/campaign"
	"github.com/adbeam/adbeam/internal/domain/credential"
	"github.com/adbeam/adbeam/internal/shared/authorization"
	"github.com/adbeam/adbeam/internal/shared/errors"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

// RotateCredentialUseCase mints a fresh overlay key for a channel. The
// previous key stops validating the moment the new digest is stored.
type RotateCredentialUseCase struct {
	channelRepo    campaign.ChannelRepository
	credentialRepo credential.Repository
	overlayBaseURL string
	logger         logger.Interface
}

// NewRotateCredentialUseCase creates a new rotate credential use case.
func NewRotateCredentialUseCase(
	channelRepo campaign.ChannelRepository,
	credentialRepo credential.Repository,
	overlayBaseURL string,
	logger logger.Interface,
) *RotateCredentialUseCase {
	return &RotateCredentialUseCase{
		channelRepo:    channelRepo,
		credentialRepo: credentialRepo,
		overlayBaseURL: overlayBaseURL,
		logger:         logger,
	}
}

// Execute rotates the channel's overlay credential and returns the
// plaintext key. The plaintext is returned exactly once; only its digest
// and display prefix survive.
func (uc *RotateCredentialUseCase) Execute(ctx context.Context, request dto.RotateCredentialRequest) (*dto.RotateCredentialResponse, error) {
	role := authorization.ParseRole(request.ActorRole)
	if err := authorization.RequireCapability(role, authorization.CapabilityRotateOverlayKey); err != nil {
		return nil, err
	}

	channel, err := uc.channelRepo.GetByID(ctx, request.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load channel: %w", err)
	}
	if channel == nil {
		return nil, errors.NewNotFoundError("channel not found")
	}

	// Streamers may only rotate keys on their own channels.
	if role == authorization.RoleStreamer && channel.StreamerID != request.ActorID {
		return nil, errors.NewForbiddenError("channel is not owned by the caller")
	}

	cred, err := credential.NewCredential(request.ChannelID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to generate credential: %w", err)
	}

	if err := uc.credentialRepo.Upsert(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	uc.logger.Info("overlay credential rotated",
		"channel_id", request.ChannelID,
		"key_prefix", cred.KeyPrefix(),
	)

	return &dto.RotateCredentialResponse{
		OverlayKey: cred.PlainKey(),
		OverlayURL: fmt.Sprintf("%s/overlay?key=%s", uc.overlayBaseURL, url.QueryEscape(cred.PlainKey())),
		KeyPrefix:  cred.KeyPrefix(),
	}, nil
}
