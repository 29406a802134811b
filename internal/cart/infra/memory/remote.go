// Package memory implements RemoteCartService in process. It backs the
// demo binary and the package tests; the merge and totals behavior mimics
// the real backend closely enough for both.
package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/app"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/domain"
)

type Remote struct {
	mu   sync.Mutex
	cart domain.Cart

	// Err, when set, fails every call until cleared. Tests use it to drive
	// the rollback paths.
	Err error

	// Prices supplies unit prices (paise) for products added by ID.
	Prices map[int]string

	gets int
}

var _ app.RemoteCartService = (*Remote)(nil)

func NewRemote() *Remote {
	return &Remote{
		cart:   domain.EmptyCart(),
		Prices: map[int]string{},
	}
}

func (r *Remote) GetCart(_ context.Context) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return domain.Cart{}, r.Err
	}
	r.gets++
	return r.cart.Clone(), nil
}

// GetCalls reports how many GetCart requests reached the backend, so tests
// can tell a cache hit from a refetch.
func (r *Remote) GetCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}

func (r *Remote) SetCart(cart domain.Cart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart = cart.Clone()
}

func (r *Remote) AddItems(_ context.Context, items []app.AddItem) ([]app.AddItemResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	results := make([]app.AddItemResult, 0, len(items))
	for _, in := range items {
		productID, err := strconv.Atoi(in.ProductID)
		if err != nil {
			results = append(results, app.AddItemResult{
				Err: &app.ServiceError{Code: "invalid_product", Message: "invalid product id: " + in.ProductID},
			})
			continue
		}
		quantity, err := strconv.Atoi(in.Quantity)
		if err != nil || quantity <= 0 {
			results = append(results, app.AddItemResult{
				Err: &app.ServiceError{Code: "invalid_quantity", Message: "invalid quantity for product " + in.ProductID},
			})
			continue
		}

		merged := false
		for i := range r.cart.Items {
			if r.cart.Items[i].ProductID == productID {
				r.cart.Items[i].Quantity.Value += quantity
				merged = true
				break
			}
		}
		if !merged {
			price := r.Prices[productID]
			if price == "" {
				price = "0"
			}
			r.cart.Items = append(r.cart.Items, domain.CartItem{
				ItemKey:   uuid.NewString(),
				ProductID: productID,
				Price:     price,
				Quantity:  domain.Quantity{Value: quantity, MinPurchase: 1, MaxPurchase: -1},
			})
		}
		r.recompute()

		cart := r.cart.Clone()
		results = append(results, app.AddItemResult{Success: true, Cart: &cart})
	}
	return results, nil
}

func (r *Remote) UpdateItemQuantity(_ context.Context, itemKey string, quantity string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return domain.Cart{}, r.Err
	}

	value, err := strconv.Atoi(quantity)
	if err != nil {
		return domain.Cart{}, &app.ServiceError{Code: "invalid_quantity", Message: "invalid quantity: " + quantity}
	}
	for i := range r.cart.Items {
		if r.cart.Items[i].ItemKey == itemKey {
			r.cart.Items[i].Quantity.Value = value
		}
	}
	r.recompute()
	return r.cart.Clone(), nil
}

func (r *Remote) RemoveItem(_ context.Context, itemKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}

	items := r.cart.Items[:0]
	for _, it := range r.cart.Items {
		if it.ItemKey != itemKey {
			items = append(items, it)
		}
	}
	r.cart.Items = items
	r.recompute()
	return nil
}

func (r *Remote) ClearCart(_ context.Context) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return domain.Cart{}, r.Err
	}
	r.cart = domain.EmptyCart()
	return r.cart.Clone(), nil
}

func (r *Remote) recompute() {
	r.cart.ItemCount = domain.ItemsCount(r.cart.Items)

	subtotal := decimal.Zero
	for _, it := range r.cart.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			continue
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity.Value))))
	}
	r.cart.Totals.Subtotal = subtotal.StringFixed(2)
	r.cart.Totals.Total = r.cart.Totals.Subtotal
}
