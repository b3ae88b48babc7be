package agent

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile is an agent's marketplace record. Name stays private: read models
// only disclose it to a brokerage whose pitch against this agent is paid.
type Profile struct {
	ID              string
	UserID          string
	AnonymousID     string
	Name            *string
	LicenseNumber   string
	YearsExperience int
	SalesVolume     decimal.Decimal
	CurrentBroker   *string
	WishList        []string
	IsAnonymous     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filters narrows the discovery listing.
type Filters struct {
	MinExperience int
	MinVolume     decimal.Decimal
	WishTags      []string
}
