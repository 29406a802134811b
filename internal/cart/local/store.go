// Package local implements the guest cart: a single-writer, persisted cart
// the client uses while unauthenticated. Every mutation recomputes the
// denormalized item count and writes the whole cart back to durable storage.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/domain"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/notify"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/storage"
)

const storageKey = "cart-storage"

type Store struct {
	mu   sync.Mutex
	cart domain.Cart

	kv     storage.KV
	notify notify.Notifier
	log    *slog.Logger
}

// NewStore starts from the canonical empty cart. Until Load runs, reads
// return that default rather than blocking on storage.
func NewStore(kv storage.KV, notifier notify.Notifier, log *slog.Logger) *Store {
	return &Store{
		cart:   domain.EmptyCart(),
		kv:     kv,
		notify: notifier,
		log:    log,
	}
}

// Load rehydrates the cart from storage. Missing or undecodable state keeps
// the empty default; a corrupt blob should not brick the cart.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, storageKey)
	if err == storage.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		s.log.Warn("discarding undecodable cart state", slog.Any("err", err))
		return nil
	}

	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()
	return nil
}

// Cart returns a deep copy of the current guest cart.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// AddItem appends the item, or bumps the existing line's quantity by one
// when the product is already in the cart. The merge increment does not
// check max_purchase; the server enforces purchasable bounds at order time.
func (s *Store) AddItem(ctx context.Context, item domain.CartItem) {
	s.mu.Lock()

	merged := false
	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == item.ProductID {
			s.cart.Items[i].Quantity.Value++
			merged = true
			break
		}
	}
	if !merged {
		s.cart.Items = append(s.cart.Items, item.Clone())
	}
	s.cart.ItemCount = domain.ItemsCount(s.cart.Items)
	s.persistLocked(ctx)

	s.mu.Unlock()

	s.notify.Success("Item added to cart")
}

// UpdateItemQuantity replaces the matched item's quantity value. The value
// is not validated against the purchase bounds here; the UI disables the
// controls at the bounds and the store trusts its caller. An unknown item
// key is a no-op.
func (s *Store) UpdateItemQuantity(ctx context.Context, itemKey string, quantity int) {
	s.mu.Lock()

	for i := range s.cart.Items {
		if s.cart.Items[i].ItemKey == itemKey {
			s.cart.Items[i].Quantity.Value = quantity
			break
		}
	}
	s.cart.ItemCount = domain.ItemsCount(s.cart.Items)
	s.persistLocked(ctx)

	s.mu.Unlock()
}

// RemoveItem drops the matching line. An unknown item key is a no-op.
func (s *Store) RemoveItem(ctx context.Context, itemKey string) {
	s.mu.Lock()

	items := s.cart.Items[:0]
	for _, it := range s.cart.Items {
		if it.ItemKey != itemKey {
			items = append(items, it)
		}
	}
	s.cart.Items = items
	s.cart.ItemCount = domain.ItemsCount(s.cart.Items)
	s.persistLocked(ctx)

	s.mu.Unlock()
}

// SetCart replaces the whole cart.
func (s *Store) SetCart(ctx context.Context, cart domain.Cart) {
	s.mu.Lock()
	s.cart = cart.Clone()
	s.persistLocked(ctx)
	s.mu.Unlock()
}

// Clear resets to the canonical empty cart, cosmetic fields included.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.cart = domain.EmptyCart()
	s.persistLocked(ctx)
	s.mu.Unlock()
}

func (s *Store) ItemExists(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.cart.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *Store) ItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ItemsCount(s.cart.Items)
}

// persistLocked writes the full cart to storage while still inside the
// mutation's critical section, so concurrent mutations cannot commit their
// writes out of order and leave storage behind memory. The in-memory state
// is already committed at this point; a storage failure is logged, not
// rolled back.
func (s *Store) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.cart)
	if err != nil {
		s.log.Error("failed to encode cart", slog.Any("err", err))
		return
	}

	if err := s.kv.Set(ctx, storageKey, raw); err != nil {
		s.log.Error("failed to persist cart", slog.Any("err", err))
	}
}
