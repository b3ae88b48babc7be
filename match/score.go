// Package match holds the pure numeric rules of the marketplace: how well a
// brokerage offer satisfies an agent wish list, and the lost-commission math
// behind the public calculator.
package match

import (
	"math"

	"github.com/shopspring/decimal"

	"pitchflow/offer"
)

var (
	capUnder25K = decimal.NewFromInt(25000)
	capUnder15K = decimal.NewFromInt(15000)
	lowFeeLimit = decimal.NewFromInt(500)
)

// Score returns the percentage of wishList tags the offer satisfies, rounded
// to the nearest integer. An empty wish list matches vacuously at 100.
// Unrecognized tags count as unsatisfied rather than erroring.
func Score(wishList []string, o offer.Offer) int {
	if len(wishList) == 0 {
		return 100
	}

	matched := 0
	for _, wish := range wishList {
		if satisfies(wish, o) {
			matched++
		}
	}

	return int(math.Round(float64(matched) / float64(len(wishList)) * 100))
}

func satisfies(wish string, o offer.Offer) bool {
	switch wish {
	case offer.Wish9010Split:
		return o.SplitPercent >= 90
	case offer.Wish8020Split:
		return o.SplitPercent >= 80
	case offer.Wish100Split:
		return o.SplitPercent == 100
	case offer.WishCapUnder25K:
		return o.CapAmount != nil && o.CapAmount.LessThanOrEqual(capUnder25K)
	case offer.WishCapUnder15K:
		return o.CapAmount != nil && o.CapAmount.LessThanOrEqual(capUnder15K)
	case offer.WishNoMonthlyFees:
		return o.MonthlyFee.IsZero()
	case offer.WishLowMonthlyFees:
		return o.MonthlyFee.LessThan(lowFeeLimit)
	}

	if benefit, ok := offer.WishToBenefit[wish]; ok {
		for _, b := range o.AdditionalBenefits {
			if b == benefit {
				return true
			}
		}
	}
	return false
}
