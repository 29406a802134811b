package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// KV is the durable key-value store the client persists its state into:
// the guest cart and the auth token live here.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
