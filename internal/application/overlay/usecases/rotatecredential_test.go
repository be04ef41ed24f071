package usecases

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adbeam/adbeam/internal/application/overlay/dto"
	"github.com/adbeam/adbeam/internal/domain/campaign"
	"github.com/adbeam/adbeam/internal/shared/errors"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

// fakeChannelRepo is an in-memory campaign.ChannelRepository.
type fakeChannelRepo struct {
	mu       sync.Mutex
	channels map[string]*campaign.Channel
}

func newFakeChannelRepo(channels ...*campaign.Channel) *fakeChannelRepo {
	r := &fakeChannelRepo{channels: make(map[string]*campaign.Channel)}
	for _, ch := range channels {
		r.channels[ch.ID] = ch
	}
	return r
}

func (r *fakeChannelRepo) GetByID(_ context.Context, id string) (*campaign.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channels[id], nil
}

func newRotateHarness() (*RotateCredentialUseCase, *ValidateCredentialUseCase, *fakeCredentialRepo) {
	channelRepo := newFakeChannelRepo(&campaign.Channel{ID: "ch_1", StreamerID: "str_1"})
	credRepo := newFakeCredentialRepo()
	credRepo.StreamerIDs["ch_1"] = "str_1"

	rotate := NewRotateCredentialUseCase(channelRepo, credRepo, "https://overlay.example.com", logger.NewLogger())
	validate := NewValidateCredentialUseCase(credRepo)
	return rotate, validate, credRepo
}

func TestRotateCredential_RoundTrip(t *testing.T) {
	rotate, validate, _ := newRotateHarness()
	ctx := context.Background()

	resp, err := rotate.Execute(ctx, dto.RotateCredentialRequest{
		ChannelID: "ch_1",
		ActorID:   "str_1",
		ActorRole: "streamer",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.OverlayKey)
	assert.Equal(t, resp.OverlayKey[:8], resp.KeyPrefix)
	assert.Contains(t, resp.OverlayURL, "https://overlay.example.com/overlay?key=")

	identity, err := validate.Execute(ctx, resp.OverlayKey)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "ch_1", identity.ChannelID)
	assert.Equal(t, "str_1", identity.StreamerID)
}

func TestRotateCredential_SupersedesPriorKey(t *testing.T) {
	rotate, validate, _ := newRotateHarness()
	ctx := context.Background()

	first, err := rotate.Execute(ctx, dto.RotateCredentialRequest{
		ChannelID: "ch_1",
		ActorID:   "str_1",
		ActorRole: "streamer",
	})
	require.NoError(t, err)

	second, err := rotate.Execute(ctx, dto.RotateCredentialRequest{
		ChannelID: "ch_1",
		ActorID:   "str_1",
		ActorRole: "streamer",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.OverlayKey, second.OverlayKey)

	// The superseded secret stops validating at once.
	identity, err := validate.Execute(ctx, first.OverlayKey)
	require.NoError(t, err)
	assert.Nil(t, identity)

	identity, err = validate.Execute(ctx, second.OverlayKey)
	require.NoError(t, err)
	assert.NotNil(t, identity)
}

func TestRotateCredential_UnknownChannel(t *testing.T) {
	rotate, _, _ := newRotateHarness()

	_, err := rotate.Execute(context.Background(), dto.RotateCredentialRequest{
		ChannelID: "ch_missing",
		ActorID:   "adm_1",
		ActorRole: "admin",
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRotateCredential_StreamerCannotRotateForeignChannel(t *testing.T) {
	rotate, _, _ := newRotateHarness()

	_, err := rotate.Execute(context.Background(), dto.RotateCredentialRequest{
		ChannelID: "ch_1",
		ActorID:   "str_other",
		ActorRole: "streamer",
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
}

func TestRotateCredential_ViewerLacksCapability(t *testing.T) {
	rotate, _, _ := newRotateHarness()

	_, err := rotate.Execute(context.Background(), dto.RotateCredentialRequest{
		ChannelID: "ch_1",
		ActorID:   "vw_1",
		ActorRole: "viewer",
	})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
}

func TestValidateCredential_EmptySecret(t *testing.T) {
	_, validate, _ := newRotateHarness()

	identity, err := validate.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, identity)
}
