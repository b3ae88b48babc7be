package pitch

import (
	"errors"
	"time"

	"pitchflow/offer"
)

// Status is the agent-side response state of a pitch.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusDeclined Status = "DECLINED"
)

// PaymentStatus tracks the contact-fee payment for a pitch. PAID is terminal.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Domain errors. Guard violations surface as one of these; anything else a
// repository returns is a storage failure.
var (
	ErrNotFound       = errors.New("pitch: not found")
	ErrForbidden      = errors.New("pitch: forbidden")
	ErrInvalidState   = errors.New("pitch: invalid state")
	ErrDuplicatePitch = errors.New("pitch: already pitched this agent")
	ErrAlreadyPaid    = errors.New("pitch: already paid")
)

// Pitch is an offer sent by one brokerage to one agent. At most one pitch
// exists per (agent, brokerage) pair. OfferDetails is a snapshot taken at
// creation; later edits to the brokerage's standard offer do not reach it.
type Pitch struct {
	ID               string        `json:"id"`
	AgentID          string        `json:"agentId"`
	BrokerageID      string        `json:"brokerageId"`
	Message          string        `json:"message"`
	OfferDetails     offer.Offer   `json:"offerDetails"`
	Status           Status        `json:"status"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	PaymentSessionID *string       `json:"-"`
	CreatedAt        time.Time     `json:"createdAt"`
	RespondedAt      *time.Time    `json:"respondedAt"`
	PaidAt           *time.Time    `json:"paidAt"`
}
