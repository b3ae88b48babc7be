package offer

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAcceptsTypicalOffer(t *testing.T) {
	cap := decimal.NewFromInt(18000)
	o := Offer{
		SplitPercent:       85,
		CapAmount:          &cap,
		MonthlyFee:         decimal.NewFromInt(99),
		AdditionalBenefits: []string{BenefitLeads, BenefitTraining},
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("expected valid offer, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	negative := decimal.NewFromInt(-1)

	cases := []struct {
		name string
		o    Offer
	}{
		{"split above 100", Offer{SplitPercent: 101}},
		{"split below 0", Offer{SplitPercent: -1}},
		{"negative cap", Offer{SplitPercent: 50, CapAmount: &negative}},
		{"negative fee", Offer{SplitPercent: 50, MonthlyFee: negative}},
		{"unknown benefit", Offer{SplitPercent: 50, AdditionalBenefits: []string{"free_yacht"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.o.Validate()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cap := decimal.NewFromInt(20000)
	original := Offer{
		SplitPercent:       70,
		CapAmount:          &cap,
		AdditionalBenefits: []string{BenefitMarketing},
	}

	copy := original.Clone()
	*copy.CapAmount = decimal.NewFromInt(1)
	copy.AdditionalBenefits[0] = BenefitLeads

	if !original.CapAmount.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("mutating clone cap leaked into original")
	}
	if original.AdditionalBenefits[0] != BenefitMarketing {
		t.Errorf("mutating clone benefits leaked into original")
	}
}

func TestValidWishTag(t *testing.T) {
	if !ValidWishTag(Wish9010Split) {
		t.Errorf("catalog tag rejected")
	}
	if ValidWishTag("90_10_split") {
		t.Errorf("tags are case sensitive")
	}
	if ValidWishTag("") {
		t.Errorf("empty tag accepted")
	}
}
