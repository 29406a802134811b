package app

import (
	"context"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/domain"
)

// AddItem is one line of the batched add-items payload. The server expects
// stringified numbers, so the coercion happens before the wire, not on it.
type AddItem struct {
	ProductID string `json:"product_id"`
	Quantity  string `json:"quantity"`
}

// ServiceError is a structured error entry returned by the remote cart
// service.
type ServiceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// AddItemResult is one per-item entry of the batched add-items response:
// either an updated cart or an error.
type AddItemResult struct {
	Success bool
	Cart    *domain.Cart
	Err     *ServiceError
}

// RemoteCartService is the authoritative cart backend.
type RemoteCartService interface {
	GetCart(ctx context.Context) (domain.Cart, error)
	AddItems(ctx context.Context, items []AddItem) ([]AddItemResult, error)
	UpdateItemQuantity(ctx context.Context, itemKey string, quantity string) (domain.Cart, error)
	RemoveItem(ctx context.Context, itemKey string) error
	ClearCart(ctx context.Context) (domain.Cart, error)
}

// AuthState is the slice of the auth manager the cart needs.
type AuthState interface {
	IsAuthenticated() bool
}
