package brokerage

import (
	"context"
	"fmt"
	"strings"

	"pitchflow/offer"
)

// Service exposes business-level brokerage profile operations.
type Service struct {
	repo Repository
}

// CreateParams carries the fields a brokerage supplies at onboarding.
type CreateParams struct {
	CompanyName   string
	Location      string
	LogoURL       *string
	Description   *string
	StandardOffer offer.Offer
}

// UpdateParams carries the fields a brokerage may edit later. Nil pointers
// leave the stored value untouched.
type UpdateParams struct {
	CompanyName   *string
	Location      *string
	LogoURL       *string
	Description   *string
	StandardOffer *offer.Offer
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateProfile registers a new brokerage profile for userID.
func (s *Service) CreateProfile(ctx context.Context, userID string, params CreateParams) (Profile, error) {
	if userID == "" {
		return Profile{}, fmt.Errorf("brokerage: missing user id")
	}
	if strings.TrimSpace(params.CompanyName) == "" {
		return Profile{}, fmt.Errorf("%w: company name is required", offer.ErrValidation)
	}
	if strings.TrimSpace(params.Location) == "" {
		return Profile{}, fmt.Errorf("%w: location is required", offer.ErrValidation)
	}
	if err := params.StandardOffer.Validate(); err != nil {
		return Profile{}, err
	}

	return s.repo.Create(ctx, Profile{
		UserID:        userID,
		CompanyName:   strings.TrimSpace(params.CompanyName),
		Location:      strings.TrimSpace(params.Location),
		LogoURL:       params.LogoURL,
		Description:   params.Description,
		StandardOffer: params.StandardOffer,
	})
}

// GetByUserID returns the profile owned by userID.
func (s *Service) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// GetByID returns the profile with the given id.
func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies partial edits to the profile owned by userID.
// Changing the standard offer never touches offers already snapshotted into
// existing pitches.
func (s *Service) UpdateProfile(ctx context.Context, userID string, params UpdateParams) (Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	if params.CompanyName != nil {
		trimmed := strings.TrimSpace(*params.CompanyName)
		if trimmed == "" {
			return Profile{}, fmt.Errorf("%w: company name must not be empty", offer.ErrValidation)
		}
		profile.CompanyName = trimmed
	}
	if params.Location != nil {
		trimmed := strings.TrimSpace(*params.Location)
		if trimmed == "" {
			return Profile{}, fmt.Errorf("%w: location must not be empty", offer.ErrValidation)
		}
		profile.Location = trimmed
	}
	if params.LogoURL != nil {
		profile.LogoURL = params.LogoURL
	}
	if params.Description != nil {
		profile.Description = params.Description
	}
	if params.StandardOffer != nil {
		if err := params.StandardOffer.Validate(); err != nil {
			return Profile{}, err
		}
		profile.StandardOffer = *params.StandardOffer
	}

	return s.repo.Update(ctx, profile)
}
