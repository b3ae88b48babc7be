package offer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrValidation wraps every field-level complaint about an offer so callers
// can map the whole class to a single client-facing error code.
var ErrValidation = errors.New("offer: validation failed")

// Offer is a brokerage's commission/fee/benefit terms. A brokerage keeps one
// as its standard offer; every pitch stores an immutable copy so later edits
// to the standard offer never alter pitches already sent.
type Offer struct {
	SplitPercent       int              `json:"splitPercent"`
	CapAmount          *decimal.Decimal `json:"capAmount"`
	MonthlyFee         decimal.Decimal  `json:"monthlyFee"`
	AdditionalBenefits []string         `json:"additionalBenefits"`
}

// Validate checks the value ranges and benefit ids.
func (o Offer) Validate() error {
	if o.SplitPercent < 0 || o.SplitPercent > 100 {
		return fmt.Errorf("%w: split percent must be between 0 and 100, got %d", ErrValidation, o.SplitPercent)
	}
	if o.CapAmount != nil && o.CapAmount.IsNegative() {
		return fmt.Errorf("%w: cap amount must not be negative", ErrValidation)
	}
	if o.MonthlyFee.IsNegative() {
		return fmt.Errorf("%w: monthly fee must not be negative", ErrValidation)
	}
	for _, b := range o.AdditionalBenefits {
		if !validBenefits[b] {
			return fmt.Errorf("%w: unknown benefit %q", ErrValidation, b)
		}
	}
	return nil
}

// Clone returns a deep copy suitable for snapshotting into a pitch.
func (o Offer) Clone() Offer {
	out := o
	if o.CapAmount != nil {
		cap := *o.CapAmount
		out.CapAmount = &cap
	}
	if o.AdditionalBenefits != nil {
		out.AdditionalBenefits = append([]string(nil), o.AdditionalBenefits...)
	}
	return out
}
