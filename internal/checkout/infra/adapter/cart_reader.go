package adapter

import (
	"context"

	cartapp "github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/app"
	checkoutapp "github.com/AyushChauhan9389/AnimeXschool-app/internal/checkout/app"
)

// CartServiceReader adapts the cart service into checkout's CartReader,
// reading whichever cart is active (guest or server).
type CartServiceReader struct {
	svc *cartapp.Service
}

var _ checkoutapp.CartReader = (*CartServiceReader)(nil)

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

// Subtotal prefers the server-reported subtotal and falls back to the
// Σ quantity·price projection when the active cart carries no totals, as
// the guest cart never does.
func (r *CartServiceReader) Subtotal(ctx context.Context) (string, error) {
	cart, err := r.svc.Cart(ctx)
	if err != nil {
		return "", err
	}
	if cart.Totals.Subtotal != "" {
		return cart.Totals.Subtotal, nil
	}
	return cartapp.Subtotal(cart.Items), nil
}
