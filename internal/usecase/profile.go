package usecase

import (
	"context"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/infra/portalapi"
	"github.com/sihhealth/healthbot/internal/ports"
)

type LoadProfile struct {
	requester ports.Requester
}

func NewLoadProfile(requester ports.Requester) *LoadProfile {
	return &LoadProfile{requester: requester}
}

// Execute fetches the logged-in user's profile. An expired session surfaces
// as *domain.AuthError once the one refresh attempt has failed.
func (uc *LoadProfile) Execute(ctx context.Context) (domain.Profile, error) {
	resp, err := uc.requester.Do(ctx, portalapi.ProfileRequest())
	if err != nil {
		return domain.Profile{}, err
	}
	return portalapi.DecodeProfile(resp)
}
