package match

import "github.com/shopspring/decimal"

// Assumed gross commission rate on transaction volume.
var commissionRate = decimal.NewFromFloat(0.03)

// The split agents could keep at a 90/10 brokerage.
var potentialSplit = decimal.NewFromFloat(0.90)

// CommissionBreakdown is the output of the lost-commission calculator.
type CommissionBreakdown struct {
	CurrentShare      decimal.Decimal
	PotentialEarnings decimal.Decimal
	LostCommission    decimal.Decimal
}

// LostCommission computes what an agent leaves on the table at their current
// split versus a 90/10 split, assuming a 3% commission on annual volume.
// Lost commission floors at zero for agents already at or above 90%.
func LostCommission(annualVolume decimal.Decimal, currentSplitPercent decimal.Decimal) CommissionBreakdown {
	total := annualVolume.Mul(commissionRate)
	current := total.Mul(currentSplitPercent.Div(decimal.NewFromInt(100)))
	potential := total.Mul(potentialSplit)

	lost := potential.Sub(current)
	if lost.IsNegative() {
		lost = decimal.Zero
	}

	return CommissionBreakdown{
		CurrentShare:      current,
		PotentialEarnings: potential,
		LostCommission:    lost,
	}
}
