package app

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/checkout/domain"
)

// OffPercentage is the sale badge percentage: how far price sits below
// regularPrice, rounded to the nearest integer. A zero, missing or
// unparsable regular price means no discount to show, so 0.
func OffPercentage(price, regularPrice string) int {
	regular, err := decimal.NewFromString(regularPrice)
	if err != nil || regular.IsZero() {
		return 0
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return 0
	}

	pct := regular.Sub(p).Div(regular).Mul(decimal.NewFromInt(100))
	return int(pct.Round(0).IntPart())
}

// DiscountedTotal applies coupons to a major-unit total, in list order.
// Percent coupons always discount against the original total, never the
// running one, so two 10% coupons take 20% overall rather than compounding.
// Fixed coupons subtract their amount directly. The result keeps two
// decimals and is NOT clamped at zero: coupon amounts exceeding the total
// go negative, and the display layer decides what to do with that.
func DiscountedTotal(total string, coupons []domain.Coupon) string {
	if len(coupons) == 0 {
		return total
	}

	t, err := decimal.NewFromString(total)
	if err != nil {
		return total
	}

	discounted := t
	for _, coupon := range coupons {
		amount, err := decimal.NewFromString(coupon.Amount)
		if err != nil {
			continue
		}
		if coupon.DiscountType == domain.DiscountPercent {
			discounted = discounted.Sub(t.Mul(amount.Div(decimal.NewFromInt(100))))
		} else {
			discounted = discounted.Sub(amount)
		}
	}
	return discounted.StringFixed(2)
}

// CouponExpired reports whether the coupon's expiry has passed, preferring
// the GMT field. No expiry means never expiring, and so does an unparsable
// one: refusing a coupon over a date format bug would be worse than
// letting the server make the final call.
func CouponExpired(c domain.Coupon) bool {
	return couponExpiredAt(c, time.Now())
}

func couponExpiredAt(c domain.Coupon, now time.Time) bool {
	expiry := c.DateExpiresGMT
	if expiry == "" {
		expiry = c.DateExpires
	}
	if expiry == "" {
		return false
	}

	t, err := parseCouponDate(expiry)
	if err != nil {
		slog.Warn("unparsable coupon expiry", slog.String("code", c.Code), slog.Any("err", err))
		return false
	}
	return now.After(t)
}

var couponDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseCouponDate(s string) (time.Time, error) {
	var err error
	for _, layout := range couponDateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
