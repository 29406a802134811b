package app

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/cache"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/domain"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/local"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/notify"
)

var ErrNoItemsAdded = errors.New("no items were added to the cart")

// Service is the cart facade the presentation layer talks to. While
// unauthenticated every mutation lands in the guest cart; once logged in,
// mutations go to the server with optimistic cache updates. The two paths
// only meet in the sync engine at the login boundary.
type Service struct {
	remote RemoteCartService
	cache  *cache.CartCache
	local  *local.Store
	auth   AuthState
	notify notify.Notifier
	log    *slog.Logger
}

func NewService(remote RemoteCartService, c *cache.CartCache, l *local.Store, auth AuthState, notifier notify.Notifier, log *slog.Logger) *Service {
	return &Service{
		remote: remote,
		cache:  c,
		local:  l,
		auth:   auth,
		notify: notifier,
		log:    log,
	}
}

// Cart returns the active cart: the server cart (through the cache) when
// authenticated, the guest cart otherwise.
func (s *Service) Cart(ctx context.Context) (domain.Cart, error) {
	if !s.auth.IsAuthenticated() {
		return s.local.Cart(), nil
	}
	return s.cache.Read(ctx, s.remote.GetCart)
}

// AddToCart routes an add to the server or the guest cart. The server path
// is not optimistic: the response replaces the cached cart wholesale.
func (s *Service) AddToCart(ctx context.Context, item domain.CartItem) error {
	if !s.auth.IsAuthenticated() {
		s.local.AddItem(ctx, item)
		return nil
	}

	results, err := s.remote.AddItems(ctx, []AddItem{{
		ProductID: strconv.Itoa(item.ProductID),
		Quantity:  strconv.Itoa(item.Quantity.Value),
	}})
	cart, err := MergedCart(results, err)
	if err != nil {
		s.notify.Error("Failed to add item to cart", err.Error())
		return err
	}

	s.cache.Set(cart)
	s.notify.Success("Item added to cart")
	return nil
}

// UpdateItemQuantity sets a line's quantity. Against the server cart it
// follows the optimistic discipline: cancel the in-flight refetch, snapshot,
// project, send, roll back on failure, invalidate on settle.
func (s *Service) UpdateItemQuantity(ctx context.Context, itemKey string, quantity int) error {
	if !s.auth.IsAuthenticated() {
		s.local.UpdateItemQuantity(ctx, itemKey, quantity)
		return nil
	}

	s.cache.CancelRefetch()
	snap, hasSnap := s.cache.Snapshot()
	if hasSnap {
		s.cache.WriteSpeculative(func(cart *domain.Cart) {
			for i := range cart.Items {
				if cart.Items[i].ItemKey == itemKey {
					cart.Items[i].Quantity.Value = quantity
				}
			}
			projectTotals(cart)
		})
	}
	defer s.cache.Invalidate()

	_, err := s.remote.UpdateItemQuantity(ctx, itemKey, strconv.Itoa(quantity))
	if err != nil {
		if hasSnap {
			s.cache.Restore(snap)
		}
		s.notify.Error("Failed to update item quantity", err.Error())
		return err
	}
	return nil
}

// RemoveItem removes a line, optimistically against the server cart.
func (s *Service) RemoveItem(ctx context.Context, itemKey string) error {
	if !s.auth.IsAuthenticated() {
		s.local.RemoveItem(ctx, itemKey)
		return nil
	}

	s.cache.CancelRefetch()
	snap, hasSnap := s.cache.Snapshot()
	if hasSnap {
		s.cache.WriteSpeculative(func(cart *domain.Cart) {
			items := cart.Items[:0]
			for _, it := range cart.Items {
				if it.ItemKey != itemKey {
					items = append(items, it)
				}
			}
			cart.Items = items
			projectTotals(cart)
		})
	}
	defer s.cache.Invalidate()

	if err := s.remote.RemoveItem(ctx, itemKey); err != nil {
		if hasSnap {
			s.cache.Restore(snap)
		}
		s.notify.Error("Failed to remove item from cart", err.Error())
		return err
	}
	return nil
}

// ClearCart empties the active cart, optimistically against the server.
func (s *Service) ClearCart(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		s.local.Clear(ctx)
		return nil
	}

	s.cache.CancelRefetch()
	snap, hasSnap := s.cache.Snapshot()
	if hasSnap {
		s.cache.WriteSpeculative(func(cart *domain.Cart) {
			cart.Items = []domain.CartItem{}
			cart.ItemCount = 0
			cart.Totals = domain.Totals{}
		})
	}
	defer s.cache.Invalidate()

	if _, err := s.remote.ClearCart(ctx); err != nil {
		if hasSnap {
			s.cache.Restore(snap)
		}
		s.notify.Error("Failed to clear cart", err.Error())
		return err
	}
	return nil
}

// ItemExists reports whether the product is in the active cart. The server
// path reads the cache only; it never triggers a fetch.
func (s *Service) ItemExists(productID int) bool {
	if !s.auth.IsAuthenticated() {
		return s.local.ItemExists(productID)
	}

	cart, ok := s.cache.Get()
	if !ok {
		return false
	}
	for _, it := range cart.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// ItemsCount sums the quantities of the active cart.
func (s *Service) ItemsCount() int {
	if !s.auth.IsAuthenticated() {
		return s.local.ItemsCount()
	}

	cart, ok := s.cache.Get()
	if !ok {
		return 0
	}
	return domain.ItemsCount(cart.Items)
}

// MergedCart resolves a batched add-items response: the last successful
// entry wins and becomes the new cart. Only when no entry succeeded does
// the last error surface; partial failures are otherwise swallowed by the
// backend's contract.
func MergedCart(results []AddItemResult, err error) (domain.Cart, error) {
	if err != nil {
		return domain.Cart{}, err
	}

	var cart *domain.Cart
	var lastErr *ServiceError
	for _, res := range results {
		if res.Success && res.Cart != nil {
			cart = res.Cart
		} else if res.Err != nil {
			lastErr = res.Err
		}
	}

	if cart == nil {
		if lastErr != nil {
			return domain.Cart{}, lastErr
		}
		return domain.Cart{}, ErrNoItemsAdded
	}
	return *cart, nil
}

// projectTotals recomputes item_count and the subtotal projection after a
// speculative write. The subtotal is Σ quantity·price to two decimals; tax
// and shipping are not simulated client-side, the post-settle refetch
// reconciles the difference.
func projectTotals(cart *domain.Cart) {
	cart.ItemCount = domain.ItemsCount(cart.Items)
	cart.Totals.Subtotal = Subtotal(cart.Items)
}

// Subtotal is the Σ quantity·price projection over cart lines, in paise to
// two decimals. An approximation of what the server would report: good for
// optimistic display, not authoritative.
func Subtotal(items []domain.CartItem) string {
	subtotal := decimal.Zero
	for _, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			continue
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity.Value))))
	}
	return subtotal.StringFixed(2)
}
