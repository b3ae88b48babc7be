package match

import (
	"testing"

	"github.com/shopspring/decimal"

	"pitchflow/offer"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestScoreEmptyWishList(t *testing.T) {
	o := offer.Offer{SplitPercent: 50, MonthlyFee: dec(1000)}
	if got := Score(nil, o); got != 100 {
		t.Fatalf("empty wish list: expected 100, got %d", got)
	}
	if got := Score([]string{}, o); got != 100 {
		t.Fatalf("empty slice wish list: expected 100, got %d", got)
	}
}

func TestScoreFullMatch(t *testing.T) {
	o := offer.Offer{
		SplitPercent: 80,
		CapAmount:    decPtr(20000),
		MonthlyFee:   decimal.Zero,
	}
	wishes := []string{offer.WishNoMonthlyFees, offer.WishCapUnder25K}

	if got := Score(wishes, o); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestScorePartialMatchRounds(t *testing.T) {
	o := offer.Offer{
		SplitPercent: 85,
		MonthlyFee:   dec(300),
	}
	// 80_20 satisfied, 90_10 not, low fees satisfied: 2 of 3 -> 67.
	wishes := []string{offer.Wish8020Split, offer.Wish9010Split, offer.WishLowMonthlyFees}

	if got := Score(wishes, o); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
}

func TestScoreSplitPredicates(t *testing.T) {
	cases := []struct {
		name  string
		wish  string
		split int
		want  bool
	}{
		{"90_10 at 90", offer.Wish9010Split, 90, true},
		{"90_10 at 89", offer.Wish9010Split, 89, false},
		{"80_20 at 80", offer.Wish8020Split, 80, true},
		{"80_20 at 95", offer.Wish8020Split, 95, true},
		{"100 only at exactly 100", offer.Wish100Split, 99, false},
		{"100 at 100", offer.Wish100Split, 100, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := offer.Offer{SplitPercent: tc.split}
			got := Score([]string{tc.wish}, o) == 100
			if got != tc.want {
				t.Errorf("split %d vs %s: satisfied=%v, want %v", tc.split, tc.wish, got, tc.want)
			}
		})
	}
}

func TestScoreCapRequiresCap(t *testing.T) {
	uncapped := offer.Offer{SplitPercent: 100}
	if got := Score([]string{offer.WishCapUnder25K}, uncapped); got != 0 {
		t.Fatalf("nil cap should not satisfy cap wish, got %d", got)
	}

	capped := offer.Offer{SplitPercent: 100, CapAmount: decPtr(15000)}
	if got := Score([]string{offer.WishCapUnder25K, offer.WishCapUnder15K}, capped); got != 100 {
		t.Fatalf("15k cap should satisfy both cap wishes, got %d", got)
	}
}

func TestScoreFeePredicates(t *testing.T) {
	free := offer.Offer{MonthlyFee: decimal.Zero}
	if got := Score([]string{offer.WishNoMonthlyFees, offer.WishLowMonthlyFees}, free); got != 100 {
		t.Fatalf("zero fee should satisfy both fee wishes, got %d", got)
	}

	atLimit := offer.Offer{MonthlyFee: dec(500)}
	if got := Score([]string{offer.WishLowMonthlyFees}, atLimit); got != 0 {
		t.Fatalf("fee of 500 is not low, got %d", got)
	}
}

func TestScoreBenefitWishes(t *testing.T) {
	o := offer.Offer{
		SplitPercent:       70,
		AdditionalBenefits: []string{offer.BenefitLeads, offer.BenefitTraining},
	}
	wishes := []string{offer.WishLeadsProvided, offer.WishTraining, offer.WishHealthInsurance}

	if got := Score(wishes, o); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
}

func TestScoreUnrecognizedTagCountsAgainst(t *testing.T) {
	o := offer.Offer{SplitPercent: 100, MonthlyFee: decimal.Zero}
	if got := Score([]string{"NOT_A_TAG"}, o); got != 0 {
		t.Fatalf("unknown tag should score 0, got %d", got)
	}
	if got := Score([]string{offer.Wish100Split, "NOT_A_TAG"}, o); got != 50 {
		t.Fatalf("one of two matched should score 50, got %d", got)
	}
}

func TestScoreBounds(t *testing.T) {
	all := []string{
		offer.Wish9010Split, offer.Wish8020Split, offer.Wish100Split,
		offer.WishCapUnder25K, offer.WishCapUnder15K,
		offer.WishNoMonthlyFees, offer.WishLowMonthlyFees,
		offer.WishHealthInsurance, offer.WishRetirement401K, offer.WishTraining,
		offer.WishLeadsProvided, offer.WishTransactionCoor, offer.WishMarketing,
		offer.WishTechStack, offer.WishOfficeSpace,
	}

	best := offer.Offer{
		SplitPercent: 100,
		CapAmount:    decPtr(10000),
		MonthlyFee:   decimal.Zero,
		AdditionalBenefits: []string{
			offer.BenefitHealthInsurance, offer.BenefitRetirement401K,
			offer.BenefitTraining, offer.BenefitLeads, offer.BenefitTransactionCoor,
			offer.BenefitMarketing, offer.BenefitTechStack, offer.BenefitOfficeSpace,
		},
	}
	worst := offer.Offer{SplitPercent: 50, MonthlyFee: dec(2000)}

	if got := Score(all, best); got != 100 {
		t.Errorf("best offer: expected 100, got %d", got)
	}
	if got := Score(all, worst); got != 0 {
		t.Errorf("worst offer: expected 0, got %d", got)
	}
}
