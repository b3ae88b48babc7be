package pitch

import (
	"github.com/shopspring/decimal"

	"pitchflow/agent"
	"pitchflow/brokerage"
)

// AgentView is what a brokerage sees of an agent through one pitch. Name and
// LicenseNumber are nil until that pitch's contact fee is paid, regardless of
// what is stored. Payment gates disclosure per (agent, brokerage) pair; the
// agent's global anonymity hint is never consulted.
type AgentView struct {
	ID              string          `json:"id"`
	AnonymousID     string          `json:"anonymousId"`
	YearsExperience int             `json:"yearsExperience"`
	SalesVolume     decimal.Decimal `json:"salesVolume"`
	WishList        []string        `json:"wishList"`
	Name            *string         `json:"name"`
	LicenseNumber   *string         `json:"licenseNumber"`
}

// BrokerageView is what an agent sees of a brokerage through one pitch.
// Brokerages are never anonymous; only the contact email is payment-gated.
type BrokerageView struct {
	ID           string  `json:"id"`
	CompanyName  string  `json:"companyName"`
	Location     string  `json:"location"`
	LogoURL      *string `json:"logoUrl"`
	Description  *string `json:"description"`
	ContactEmail *string `json:"contactEmail"`
}

// ProjectAgent applies the contact-visibility policy to an agent profile as
// seen through p.
func ProjectAgent(p Pitch, a agent.Profile) AgentView {
	view := AgentView{
		ID:              a.ID,
		AnonymousID:     a.AnonymousID,
		YearsExperience: a.YearsExperience,
		SalesVolume:     a.SalesVolume,
		WishList:        a.WishList,
	}
	if p.PaymentStatus == PaymentPaid {
		view.Name = a.Name
		licence := a.LicenseNumber
		view.LicenseNumber = &licence
	}
	return view
}

// ProjectBrokerage applies the contact-visibility policy to a brokerage
// profile as seen through p. contactEmail is the brokerage account's email.
func ProjectBrokerage(p Pitch, b brokerage.Profile, contactEmail string) BrokerageView {
	view := BrokerageView{
		ID:          b.ID,
		CompanyName: b.CompanyName,
		Location:    b.Location,
		LogoURL:     b.LogoURL,
		Description: b.Description,
	}
	if p.PaymentStatus == PaymentPaid && contactEmail != "" {
		view.ContactEmail = &contactEmail
	}
	return view
}
