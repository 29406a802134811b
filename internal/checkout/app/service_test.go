package app_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/checkout/app"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/checkout/domain"
)

type fakeCart struct {
	subtotal string
	err      error
}

func (f fakeCart) Subtotal(context.Context) (string, error) {
	return f.subtotal, f.err
}

type fakeCoupons struct {
	coupons map[string]domain.Coupon
}

func (f fakeCoupons) GetCoupon(_ context.Context, code string) (domain.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return domain.Coupon{}, errors.New("coupon does not exist")
	}
	return c, nil
}

type fakePoints struct {
	balance  domain.PointsBalance
	settings domain.PointsSettings
	err      error
}

func (f fakePoints) Points(context.Context) (domain.PointsBalance, error) {
	return f.balance, f.err
}

func (f fakePoints) Settings(context.Context) (domain.PointsSettings, error) {
	return f.settings, f.err
}

func newService(cart fakeCart, coupons fakeCoupons, points fakePoints) *app.Service {
	return app.NewService(cart, coupons, points, slog.Default())
}

func TestNewEstimateConvertsUnits(t *testing.T) {
	svc := newService(fakeCart{subtotal: "100000"}, fakeCoupons{}, fakePoints{})

	est, err := svc.NewEstimate(context.Background())
	require.NoError(t, err)

	// 100000 paise -> 1000.00 rupees
	assert.Equal(t, "1000.00", est.Total)
	assert.Equal(t, "1000.00", est.DiscountedTotal)
	assert.Equal(t, domain.MethodCoupons, est.Method)
	assert.Empty(t, est.Coupons)
}

func TestApplyCoupon(t *testing.T) {
	coupons := fakeCoupons{coupons: map[string]domain.Coupon{
		"TEN":     {Code: "TEN", Amount: "10", DiscountType: domain.DiscountPercent},
		"FIFTY":   {Code: "FIFTY", Amount: "50", DiscountType: domain.DiscountFixedCart},
		"EXPIRED": {Code: "EXPIRED", Amount: "10", DiscountType: domain.DiscountPercent, DateExpiresGMT: "2000-01-01T00:00:00"},
	}}
	svc := newService(fakeCart{subtotal: "100000"}, coupons, fakePoints{})

	ctx := context.Background()
	est, err := svc.NewEstimate(ctx)
	require.NoError(t, err)

	t.Run("applies and recomputes from original total", func(t *testing.T) {
		est, err = svc.ApplyCoupon(ctx, est, "TEN")
		require.NoError(t, err)
		assert.Equal(t, "900.00", est.DiscountedTotal)

		est, err = svc.ApplyCoupon(ctx, est, "FIFTY")
		require.NoError(t, err)
		assert.Equal(t, "850.00", est.DiscountedTotal)
		assert.Len(t, est.Coupons, 2)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := svc.ApplyCoupon(ctx, est, "TEN")
		assert.ErrorIs(t, err, app.ErrCouponApplied)
	})

	t.Run("rejects expired", func(t *testing.T) {
		_, err := svc.ApplyCoupon(ctx, est, "EXPIRED")
		assert.ErrorIs(t, err, app.ErrCouponExpired)
	})

	t.Run("unknown code surfaces lookup error", func(t *testing.T) {
		_, err := svc.ApplyCoupon(ctx, est, "NOPE")
		assert.ErrorContains(t, err, "coupon not found")
	})

	t.Run("remove recomputes", func(t *testing.T) {
		est = svc.RemoveCoupon(est, "TEN")
		assert.Equal(t, "950.00", est.DiscountedTotal)
		assert.Len(t, est.Coupons, 1)
	})
}

func TestSelectMethod(t *testing.T) {
	points := fakePoints{
		balance: domain.PointsBalance{PointsBalance: 500},
		settings: domain.PointsSettings{
			RedemptionRate:        domain.RedemptionRate{Points: 10, MonetaryValue: 1},
			MaximumPointsDiscount: "10",
		},
	}
	coupons := fakeCoupons{coupons: map[string]domain.Coupon{
		"TEN": {Code: "TEN", Amount: "10", DiscountType: domain.DiscountPercent},
	}}
	svc := newService(fakeCart{subtotal: "100000"}, coupons, points)
	ctx := context.Background()

	t.Run("switching to points clears coupons", func(t *testing.T) {
		est, err := svc.NewEstimate(ctx)
		require.NoError(t, err)
		est, err = svc.ApplyCoupon(ctx, est, "TEN")
		require.NoError(t, err)

		est, err = svc.SelectMethod(ctx, est, domain.MethodPoints)
		require.NoError(t, err)
		assert.Equal(t, domain.MethodPoints, est.Method)
		assert.Empty(t, est.Coupons)
		// balance 500 points / 10 per rupee = 50 rupees off 1000
		assert.Equal(t, "500", est.Points.String())
		assert.Equal(t, "950.00", est.DiscountedTotal)
	})

	t.Run("switching back to coupons resets points", func(t *testing.T) {
		est, err := svc.NewEstimate(ctx)
		require.NoError(t, err)
		est, err = svc.SelectMethod(ctx, est, domain.MethodPoints)
		require.NoError(t, err)

		est, err = svc.SelectMethod(ctx, est, domain.MethodCoupons)
		require.NoError(t, err)
		assert.Equal(t, domain.MethodCoupons, est.Method)
		assert.True(t, est.Points.IsZero())
		assert.Equal(t, est.Total, est.DiscountedTotal)
	})

	t.Run("reselecting coupons is a no-op", func(t *testing.T) {
		est, err := svc.NewEstimate(ctx)
		require.NoError(t, err)
		est, err = svc.ApplyCoupon(ctx, est, "TEN")
		require.NoError(t, err)

		est, err = svc.SelectMethod(ctx, est, domain.MethodCoupons)
		require.NoError(t, err)
		assert.Len(t, est.Coupons, 1, "reselecting the active method must not reset it")
	})

	t.Run("no balance", func(t *testing.T) {
		svc := newService(fakeCart{subtotal: "100000"}, coupons, fakePoints{})
		est, err := svc.NewEstimate(ctx)
		require.NoError(t, err)

		_, err = svc.SelectMethod(ctx, est, domain.MethodPoints)
		assert.ErrorIs(t, err, app.ErrPointsUnavailable)
	})

	t.Run("points fetch failure", func(t *testing.T) {
		svc := newService(fakeCart{subtotal: "100000"}, coupons, fakePoints{err: errors.New("down")})
		est, err := svc.NewEstimate(ctx)
		require.NoError(t, err)

		_, err = svc.SelectMethod(ctx, est, domain.MethodPoints)
		assert.ErrorContains(t, err, "failed to load points")
	})
}
