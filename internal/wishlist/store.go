// Package wishlist implements the persisted wishlist: saved products the
// user can move to the cart later. Like the guest cart it is a
// single-writer store serialized to durable storage on every mutation.
package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/storage"
)

const storageKey = "wishlist-storage"

// Product is the slice of the catalog product the wishlist keeps. Prices
// are major-unit decimal strings as the catalog serves them.
type Product struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	RegularPrice  string `json:"regular_price"`
	SalePrice     string `json:"sale_price"`
	FeaturedImage string `json:"featured_image,omitempty"`
}

type Store struct {
	mu    sync.Mutex
	items []Product

	kv  storage.KV
	log *slog.Logger
}

// NewStore starts empty. Until Load runs, reads return the empty default
// rather than blocking on storage.
func NewStore(kv storage.KV, log *slog.Logger) *Store {
	return &Store{
		items: []Product{},
		kv:    kv,
		log:   log,
	}
}

// Load rehydrates the wishlist from storage. Missing or undecodable state
// keeps the empty default.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, storageKey)
	if err == storage.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load wishlist: %w", err)
	}

	var items []Product
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.Warn("discarding undecodable wishlist state", slog.Any("err", err))
		return nil
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the saved products in insertion order.
func (s *Store) Items() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Product(nil), s.items...)
}

// Add appends the product. Adding a product already on the list is a no-op.
func (s *Store) Add(ctx context.Context, p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == p.ID {
			return
		}
	}
	s.items = append(s.items, p)
	s.persistLocked(ctx)
}

// Remove drops the product by ID. An unknown ID is a no-op.
func (s *Store) Remove(ctx context.Context, productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items[:0]
	for _, it := range s.items {
		if it.ID != productID {
			items = append(items, it)
		}
	}
	s.items = items
	s.persistLocked(ctx)
}

// Clear empties the list.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []Product{}
	s.persistLocked(ctx)
}

func (s *Store) Contains(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == productID {
			return true
		}
	}
	return false
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// persistLocked writes the list to storage while still inside the
// mutation's critical section, so writes land in mutation order. The
// in-memory state is already committed; a storage failure is logged, not
// rolled back.
func (s *Store) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.items)
	if err != nil {
		s.log.Error("failed to encode wishlist", slog.Any("err", err))
		return
	}
	if err := s.kv.Set(ctx, storageKey, raw); err != nil {
		s.log.Error("failed to persist wishlist", slog.Any("err", err))
	}
}
