// Package cache holds the client's single server-cart slot. All reads and
// optimistic writes share it; the contract is last writer wins with no
// cross-mutation locking, corrected by invalidation after every mutation
// settles.
package cache

import (
	"context"
	"sync"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/domain"
)

type FetchFunc func(ctx context.Context) (domain.Cart, error)

type CartCache struct {
	mu    sync.Mutex
	cart  *domain.Cart
	stale bool

	// cancels the in-flight Read fetch, if any; fetchGen tells a finished
	// fetch whether the registered cancel is still its own
	fetchCancel context.CancelFunc
	fetchGen    uint64
}

func New() *CartCache {
	return &CartCache{}
}

// Read returns the cached cart, or runs fetch and caches its result. A
// fetch canceled via CancelRefetch does not write its (stale) response
// over whatever was cached in the meantime.
func (c *CartCache) Read(ctx context.Context, fetch FetchFunc) (domain.Cart, error) {
	c.mu.Lock()
	if c.cart != nil && !c.stale {
		cart := c.cart.Clone()
		c.mu.Unlock()
		return cart, nil
	}

	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.fetchGen++
	gen := c.fetchGen
	c.fetchCancel = cancel
	c.mu.Unlock()

	cart, err := fetch(fctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetchGen == gen {
		c.fetchCancel = nil
	}
	if err != nil {
		return domain.Cart{}, err
	}
	if fctx.Err() != nil {
		// canceled mid-flight; hand the caller the response but keep the
		// cache untouched
		return cart, nil
	}
	c.cart = &cart
	c.stale = false
	return cart.Clone(), nil
}

// CancelRefetch aborts an in-flight Read fetch so a stale response cannot
// clobber an optimistic write that is about to land.
func (c *CartCache) CancelRefetch() {
	c.mu.Lock()
	cancel := c.fetchCancel
	c.fetchCancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Get returns the cached cart without fetching. Stale entries are still
// returned; staleness only forces the next Read to refetch.
func (c *CartCache) Get() (domain.Cart, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cart == nil {
		return domain.Cart{}, false
	}
	return c.cart.Clone(), true
}

// Snapshot deep-copies the cached cart for a later Restore.
func (c *CartCache) Snapshot() (domain.Cart, bool) {
	return c.Get()
}

// WriteSpeculative applies an optimistic projection in place. A no-op when
// nothing is cached; with no baseline there is nothing to project from.
func (c *CartCache) WriteSpeculative(mutate func(cart *domain.Cart)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cart == nil {
		return
	}
	mutate(c.cart)
	c.stale = false
}

// Restore overwrites the slot with a snapshot taken before an optimistic
// write. A full overwrite, not a patch.
func (c *CartCache) Restore(snap domain.Cart) {
	cart := snap.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart = &cart
	c.stale = false
}

// Set replaces the slot with a server response.
func (c *CartCache) Set(cart domain.Cart) {
	clone := cart.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart = &clone
	c.stale = false
}

// Invalidate marks the slot stale: the cached cart stays readable through
// Get, but the next Read goes back to the server.
func (c *CartCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = true
}
