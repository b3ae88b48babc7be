package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pitchflow/offer"
)

// Service exposes business-level agent profile operations.
type Service struct {
	repo  Repository
	idGen func() string
}

// CreateParams carries the fields an agent supplies at onboarding.
type CreateParams struct {
	Name            *string
	LicenseNumber   string
	YearsExperience int
	SalesVolume     decimal.Decimal
	CurrentBroker   *string
	WishList        []string
}

// UpdateParams carries the fields an agent may edit later. Nil pointers leave
// the stored value untouched.
type UpdateParams struct {
	Name            *string
	LicenseNumber   *string
	YearsExperience *int
	SalesVolume     *decimal.Decimal
	CurrentBroker   *string
	WishList        []string
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		idGen: newAnonymousID,
	}
}

// WithIDGenerator overrides anonymous handle generation, for tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGen = gen
	return s
}

// CreateProfile registers a new agent profile for userID. Each user gets at
// most one profile; agents start anonymous with a fresh persistent handle.
func (s *Service) CreateProfile(ctx context.Context, userID string, params CreateParams) (Profile, error) {
	if userID == "" {
		return Profile{}, fmt.Errorf("agent: missing user id")
	}
	if strings.TrimSpace(params.LicenseNumber) == "" {
		return Profile{}, fmt.Errorf("%w: license number is required", offer.ErrValidation)
	}
	if params.YearsExperience < 0 {
		return Profile{}, fmt.Errorf("%w: years of experience must not be negative", offer.ErrValidation)
	}
	if params.SalesVolume.IsNegative() {
		return Profile{}, fmt.Errorf("%w: sales volume must not be negative", offer.ErrValidation)
	}
	if err := validateWishList(params.WishList); err != nil {
		return Profile{}, err
	}

	wishList := params.WishList
	if wishList == nil {
		wishList = []string{}
	}

	return s.repo.Create(ctx, Profile{
		UserID:          userID,
		AnonymousID:     s.idGen(),
		Name:            params.Name,
		LicenseNumber:   strings.TrimSpace(params.LicenseNumber),
		YearsExperience: params.YearsExperience,
		SalesVolume:     params.SalesVolume,
		CurrentBroker:   params.CurrentBroker,
		WishList:        wishList,
		IsAnonymous:     true,
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
func (s *Service) UpdateProfile(ctx context.Context, userID string, params UpdateParams) (Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	if params.Name != nil {
		profile.Name = params.Name
	}
	if params.LicenseNumber != nil {
		trimmed := strings.TrimSpace(*params.LicenseNumber)
		if trimmed == "" {
			return Profile{}, fmt.Errorf("%w: license number must not be empty", offer.ErrValidation)
		}
		profile.LicenseNumber = trimmed
	}
	if params.YearsExperience != nil {
		if *params.YearsExperience < 0 {
			return Profile{}, fmt.Errorf("%w: years of experience must not be negative", offer.ErrValidation)
		}
		profile.YearsExperience = *params.YearsExperience
	}
	if params.SalesVolume != nil {
		if params.SalesVolume.IsNegative() {
			return Profile{}, fmt.Errorf("%w: sales volume must not be negative", offer.ErrValidation)
		}
		profile.SalesVolume = *params.SalesVolume
	}
	if params.CurrentBroker != nil {
		profile.CurrentBroker = params.CurrentBroker
	}
	if params.WishList != nil {
		if err := validateWishList(params.WishList); err != nil {
			return Profile{}, err
		}
		profile.WishList = params.WishList
	}

	return s.repo.Update(ctx, profile)
}

// List returns discoverable agents matching the filters.
func (s *Service) List(ctx context.Context, filters Filters) ([]Profile, error) {
	return s.repo.List(ctx, filters)
}

func validateWishList(tags []string) error {
	for _, tag := range tags {
		if !offer.ValidWishTag(tag) {
			return fmt.Errorf("%w: unknown wish list tag %q", offer.ErrValidation, tag)
		}
	}
	return nil
}

// newAnonymousID mints the persistent public handle agents are known by
// until a pitch is paid, e.g. AGT-3F9A1C.
func newAnonymousID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "AGT-" + strings.ToUpper(raw[:6])
}
