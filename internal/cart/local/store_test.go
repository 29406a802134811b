package local

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/domain"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/notify"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	return NewStore(kv, notify.Noop{}, slog.Default()), kv
}

func testItem(productID int, quantity int) domain.CartItem {
	item := domain.NewItem(domain.NewItemParams{
		ProductID:  productID,
		Name:       "test product",
		PricePaise: "10000",
	})
	item.Quantity.Value = quantity
	return item
}

func TestItemCountMatchesItems(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	a := testItem(1, 2)
	b := testItem(2, 3)

	s.AddItem(ctx, a)
	s.AddItem(ctx, b)
	s.AddItem(ctx, testItem(1, 1)) // merges into a, +1
	s.UpdateItemQuantity(ctx, b.ItemKey, 7)
	s.RemoveItem(ctx, a.ItemKey)

	cart := s.Cart()
	want := 0
	for _, it := range cart.Items {
		want += it.Quantity.Value
	}
	if cart.ItemCount != want {
		t.Fatalf("item_count = %d, items sum to %d", cart.ItemCount, want)
	}
	if cart.ItemCount != 7 {
		t.Fatalf("item_count = %d, want 7", cart.ItemCount)
	}
}

func TestAddMergesDuplicateProduct(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	first := testItem(42, 2)
	s.AddItem(ctx, first)
	s.AddItem(ctx, testItem(42, 5)) // same product: +1, incoming quantity ignored

	cart := s.Cart()
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
	if got := cart.Items[0].Quantity.Value; got != 3 {
		t.Fatalf("quantity = %d, want 3", got)
	}
	if cart.Items[0].ItemKey != first.ItemKey {
		t.Fatal("merge must keep the existing line's item key")
	}
}

func TestClearResetsFully(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.AddItem(ctx, testItem(1, 2))
	cart := s.Cart()
	cart.Totals.Subtotal = "999"
	cart.CartHash = "abc"
	s.SetCart(ctx, cart)

	s.Clear(ctx)

	got := s.Cart()
	if len(got.Items) != 0 || got.ItemCount != 0 {
		t.Fatalf("expected empty cart, got %d items count %d", len(got.Items), got.ItemCount)
	}
	if got.Totals != (domain.Totals{}) {
		t.Fatalf("cosmetic totals not reset: %+v", got.Totals)
	}
	if got.CartHash != "" {
		t.Fatalf("cart hash not reset: %q", got.CartHash)
	}
	if got.Currency.CurrencyCode != "INR" {
		t.Fatalf("expected canonical currency, got %q", got.Currency.CurrencyCode)
	}
}

func TestUpdateIgnoresPurchaseBounds(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	item := testItem(1, 1)
	item.Quantity.MaxPurchase = 3
	s.AddItem(ctx, item)

	// the store trusts the caller: bounds are enforced at the UI, not here
	s.UpdateItemQuantity(ctx, item.ItemKey, 99)

	if got := s.Cart().Items[0].Quantity.Value; got != 99 {
		t.Fatalf("quantity = %d, want 99", got)
	}
}

func TestMissingItemKeyIsNoOp(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.AddItem(ctx, testItem(1, 2))
	before := s.Cart()

	s.UpdateItemQuantity(ctx, "no-such-key", 5)
	s.RemoveItem(ctx, "no-such-key")

	after := s.Cart()
	if len(after.Items) != len(before.Items) || after.ItemCount != before.ItemCount {
		t.Fatalf("cart changed on unknown item key: %+v", after)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	item := testItem(7, 4)
	s.AddItem(ctx, item)

	// a fresh store over the same storage sees the cart after Load
	reloaded := NewStore(kv, notify.Noop{}, slog.Default())
	if reloaded.ItemsCount() != 0 {
		t.Fatal("expected empty default before Load")
	}
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	cart := reloaded.Cart()
	if len(cart.Items) != 1 || cart.Items[0].ItemKey != item.ItemKey {
		t.Fatalf("rehydrated cart mismatch: %+v", cart.Items)
	}
	if cart.ItemCount != 4 {
		t.Fatalf("item_count = %d, want 4", cart.ItemCount)
	}
}

func TestLoadKeepsDefaultOnCorruptState(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	if err := kv.Set(ctx, "cart-storage", []byte("{not json")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load should swallow corrupt state, got %v", err)
	}
	if s.ItemsCount() != 0 {
		t.Fatal("expected empty cart after corrupt load")
	}
}

func TestItemExists(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.AddItem(ctx, testItem(5, 1))

	if !s.ItemExists(5) {
		t.Fatal("expected product 5 in cart")
	}
	if s.ItemExists(6) {
		t.Fatal("did not expect product 6 in cart")
	}
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	g, gctx := errgroup.WithContext(ctx)
	for p := 1; p <= 8; p++ {
		productID := p
		g.Go(func() error {
			for i := 0; i < 10; i++ {
				s.AddItem(gctx, testItem(productID, 1))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	// each product merges into one line bumped by one per add
	cart := s.Cart()
	if len(cart.Items) != 8 {
		t.Fatalf("got %d lines, want 8", len(cart.Items))
	}
	if cart.ItemCount != 80 {
		t.Fatalf("item_count = %d, want 80", cart.ItemCount)
	}

	// persistence happens inside the mutation's critical section, so the
	// last stored write must match the final in-memory state
	raw, err := kv.Get(ctx, "cart-storage")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	var stored domain.Cart
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("stored state undecodable: %v", err)
	}
	if stored.ItemCount != cart.ItemCount || len(stored.Items) != len(cart.Items) {
		t.Fatalf("storage behind memory: stored count %d/%d lines, memory %d/%d",
			stored.ItemCount, len(stored.Items), cart.ItemCount, len(cart.Items))
	}
}
