package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/checkout/domain"
)

// CartReader exposes the active cart's subtotal in paise.
type CartReader interface {
	Subtotal(ctx context.Context) (string, error)
}

type CouponReader interface {
	GetCoupon(ctx context.Context, code string) (domain.Coupon, error)
}

type PointsReader interface {
	Points(ctx context.Context) (domain.PointsBalance, error)
	Settings(ctx context.Context) (domain.PointsSettings, error)
}

var (
	ErrCouponApplied     = errors.New("coupon already applied")
	ErrCouponExpired     = errors.New("coupon expired")
	ErrPointsUnavailable = errors.New("no redeemable points")
)

// Estimate is the client-side discount projection shown before the order
// is placed. All amounts are major-unit strings; the authoritative discount
// is recomputed server-side at order creation. Method selects points or
// coupons exclusively.
type Estimate struct {
	Method          domain.DiscountMethod
	Total           string
	DiscountedTotal string
	Coupons         []domain.Coupon
	Points          decimal.Decimal
}

type Service struct {
	cart    CartReader
	coupons CouponReader
	points  PointsReader
	log     *slog.Logger
}

func NewService(cart CartReader, coupons CouponReader, points PointsReader, log *slog.Logger) *Service {
	return &Service{
		cart:    cart,
		coupons: coupons,
		points:  points,
		log:     log,
	}
}

// NewEstimate starts a checkout estimate from the active cart's subtotal.
// The cart total arrives in paise and is converted to rupees here, at the
// boundary, so everything downstream runs in one unit.
func (s *Service) NewEstimate(ctx context.Context) (Estimate, error) {
	subtotalMinor, err := s.cart.Subtotal(ctx)
	if err != nil {
		return Estimate{}, fmt.Errorf("failed to read cart subtotal: %w", err)
	}
	total, err := MinorToMajor(subtotalMinor)
	if err != nil {
		return Estimate{}, err
	}

	return Estimate{
		Method:          domain.MethodCoupons,
		Total:           total,
		DiscountedTotal: total,
		Coupons:         []domain.Coupon{},
	}, nil
}

// ApplyCoupon fetches and applies a coupon code, recomputing the discount
// chain against the original total. Duplicates and expired coupons are
// rejected before any state changes.
func (s *Service) ApplyCoupon(ctx context.Context, est Estimate, code string) (Estimate, error) {
	for _, c := range est.Coupons {
		if c.Code == code {
			return est, ErrCouponApplied
		}
	}

	coupon, err := s.coupons.GetCoupon(ctx, code)
	if err != nil {
		return est, fmt.Errorf("coupon not found: %w", err)
	}
	if CouponExpired(coupon) {
		return est, ErrCouponExpired
	}

	est.Method = domain.MethodCoupons
	est.Points = decimal.Zero
	est.Coupons = append(append([]domain.Coupon(nil), est.Coupons...), coupon)
	est.DiscountedTotal = DiscountedTotal(est.Total, est.Coupons)
	return est, nil
}

// RemoveCoupon drops an applied coupon and recomputes from the original
// total. Removing an unknown code is a no-op.
func (s *Service) RemoveCoupon(est Estimate, code string) Estimate {
	coupons := make([]domain.Coupon, 0, len(est.Coupons))
	for _, c := range est.Coupons {
		if c.Code != code {
			coupons = append(coupons, c)
		}
	}
	est.Coupons = coupons
	est.DiscountedTotal = DiscountedTotal(est.Total, est.Coupons)
	return est
}

// SelectMethod switches between points and coupons, resetting whichever
// side goes inactive. Selecting points fetches the balance and settings
// concurrently and applies the full usable-points discount.
func (s *Service) SelectMethod(ctx context.Context, est Estimate, method domain.DiscountMethod) (Estimate, error) {
	if method == domain.MethodCoupons {
		if est.Method == domain.MethodCoupons {
			return est, nil
		}
		est.Method = domain.MethodCoupons
		est.Points = decimal.Zero
		est.Coupons = []domain.Coupon{}
		est.DiscountedTotal = est.Total
		return est, nil
	}

	var balance domain.PointsBalance
	var settings domain.PointsSettings

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = s.points.Points(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.points.Settings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return est, fmt.Errorf("failed to load points: %w", err)
	}

	option, ok := UsablePoints(est.Total, balance.PointsBalance, settings)
	if !ok {
		return est, ErrPointsUnavailable
	}

	total, err := decimal.NewFromString(est.Total)
	if err != nil {
		return est, fmt.Errorf("invalid estimate total %q: %w", est.Total, err)
	}
	discountMinor, err := decimal.NewFromString(option.Discount)
	if err != nil {
		return est, err
	}

	est.Method = domain.MethodPoints
	est.Coupons = []domain.Coupon{}
	est.Points = option.Points
	est.DiscountedTotal = total.Sub(discountMinor.Div(decimal.NewFromInt(100))).StringFixed(2)
	return est, nil
}
