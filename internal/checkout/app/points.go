package app

import (
	"github.com/shopspring/decimal"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/checkout/domain"
)

// PointsOption is the points-discount offer shown at checkout: how many
// points would be spent and the resulting discount in paise. Points can be
// fractional when the cap lands between whole points; the server settles
// the exact redemption.
type PointsOption struct {
	Points   decimal.Decimal
	Discount string
}

// UsablePoints computes the redeemable points for an order. totalMajor is
// the order total in rupees. The discount is capped at
// MaximumPointsDiscount percent of the total; within that cap the user can
// spend up to their balance at the settings' redemption rate. Returns
// false when the settings carry no cap, the rate is degenerate, or the
// balance is zero.
func UsablePoints(totalMajor string, balance int, s domain.PointsSettings) (PointsOption, bool) {
	if balance <= 0 || s.MaximumPointsDiscount == "" {
		return PointsOption{}, false
	}
	maxPct, err := decimal.NewFromString(s.MaximumPointsDiscount)
	if err != nil {
		return PointsOption{}, false
	}
	total, err := decimal.NewFromString(totalMajor)
	if err != nil {
		return PointsOption{}, false
	}
	if s.RedemptionRate.MonetaryValue == 0 || s.RedemptionRate.Points == 0 {
		return PointsOption{}, false
	}

	// the rupee ceiling for the points discount
	maxDiscount := total.Mul(maxPct.Div(decimal.NewFromInt(100)))

	pointsPerRupee := decimal.NewFromInt(int64(s.RedemptionRate.Points)).
		Div(decimal.NewFromInt(int64(s.RedemptionRate.MonetaryValue)))

	maxUsable := maxDiscount.Mul(pointsPerRupee)
	usable := decimal.Min(decimal.NewFromInt(int64(balance)), maxUsable)
	if !usable.IsPositive() {
		return PointsOption{}, false
	}

	// back to rupees, then to paise for the cart-facing discount amount
	rupees := usable.Div(pointsPerRupee)
	return PointsOption{
		Points:   usable,
		Discount: rupees.Mul(decimal.NewFromInt(100)).StringFixed(2),
	}, true
}
