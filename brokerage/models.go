package brokerage

import (
	"time"

	"pitchflow/offer"
)

// Profile is a brokerage's marketplace record. Brokerages are never
// anonymous; only their contact email is payment-gated on the agent side.
type Profile struct {
	ID            string
	UserID        string
	CompanyName   string
	Location      string
	LogoURL       *string
	Description   *string
	StandardOffer offer.Offer
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
