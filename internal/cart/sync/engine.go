// Package sync merges the guest cart into the server cart when the user
// logs in. The merge is a single batched request, best effort and
// at-most-once: a failure keeps the guest cart intact and is not retried.
package sync

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/auth"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/app"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/domain"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/notify"
)

type State int

const (
	Idle State = iota
	Syncing
	Done
)

// LocalCart is the slice of the guest cart store the engine drains.
type LocalCart interface {
	Cart() domain.Cart
	Clear(ctx context.Context)
}

// ServerCart is the slice of the remote service the engine pushes into.
type ServerCart interface {
	AddItems(ctx context.Context, items []app.AddItem) ([]app.AddItemResult, error)
}

// Invalidator marks the cached server cart stale after a successful merge.
type Invalidator interface {
	Invalidate()
}

type Engine struct {
	mu    sync.Mutex
	state State

	local  LocalCart
	remote ServerCart
	cache  Invalidator
	auth   app.AuthState
	notify notify.Notifier
	log    *slog.Logger
}

func NewEngine(local LocalCart, remote ServerCart, cache Invalidator, authState app.AuthState, notifier notify.Notifier, log *slog.Logger) *Engine {
	return &Engine{
		local:  local,
		remote: remote,
		cache:  cache,
		auth:   authState,
		notify: notifier,
		log:    log,
	}
}

// Run consumes auth transitions until ctx is done. Login triggers one merge
// attempt; logout rearms the engine for the next session.
func (e *Engine) Run(ctx context.Context, events <-chan auth.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev {
			case auth.Login:
				e.TrySync(ctx)
			case auth.Logout:
				e.rearm()
			}
		}
	}
}

// TrySync runs the merge once. It is gated on: local cart non-empty,
// currently authenticated, and the engine armed (Idle). Re-entry while a
// merge is in flight or already finished is a no-op.
func (e *Engine) TrySync(ctx context.Context) {
	e.mu.Lock()
	if e.state != Idle || !e.auth.IsAuthenticated() {
		e.mu.Unlock()
		return
	}

	snapshot := e.local.Cart()
	if len(snapshot.Items) == 0 {
		e.mu.Unlock()
		return
	}

	e.state = Syncing
	e.mu.Unlock()

	items := make([]app.AddItem, 0, len(snapshot.Items))
	for _, it := range snapshot.Items {
		items = append(items, app.AddItem{
			ProductID: strconv.Itoa(it.ProductID),
			Quantity:  strconv.Itoa(it.Quantity.Value),
		})
	}

	results, err := e.remote.AddItems(ctx, items)
	if _, err = app.MergedCart(results, err); err != nil {
		// guest cart kept as is: no purchase intent lost, no auto retry
		e.log.Warn("cart sync failed", slog.Any("err", err))
		e.notify.Error("Failed to sync cart with server", err.Error())
	} else {
		e.local.Clear(ctx)
		e.cache.Invalidate()
		e.notify.Success("Cart synced with server")
	}

	e.mu.Lock()
	e.state = Done
	e.mu.Unlock()
}

// IsSyncing tells the presentation layer to render a syncing indicator
// instead of either cart list.
func (e *Engine) IsSyncing() bool {
	return e.State() == Syncing
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) rearm() {
	e.mu.Lock()
	e.state = Idle
	e.mu.Unlock()
}
