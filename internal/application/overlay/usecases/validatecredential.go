package usecases

import (
	"context"
	"fmt"

	"github.com/adbeam/adbeam/internal/domain/credential"
)

// ValidateCredentialUseCase resolves an overlay key to a channel identity.
type ValidateCredentialUseCase struct {
	credentialRepo credential.Repository
}

// NewValidateCredentialUseCase creates a new validate credential use case.
func NewValidateCredentialUseCase(credentialRepo credential.Repository) *ValidateCredentialUseCase {
	return &ValidateCredentialUseCase{credentialRepo: credentialRepo}
}

// Execute digests the secret and looks up a matching credential. A miss
// returns (nil, nil); absence is an authentication outcome for the caller
// to map, not an error here. The plaintext is never logged.
func (uc *ValidateCredentialUseCase) Execute(ctx context.Context, secret string) (*credential.Identity, error) {
	if secret == "" {
		return nil, nil
	}

	identity, err := uc.credentialRepo.ResolveIdentity(ctx, credential.HashKey(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve overlay credential: %w", err)
	}
	return identity, nil
}
