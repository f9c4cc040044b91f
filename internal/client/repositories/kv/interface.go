// Package kv is the raw key/value repository behind the persistent store.
// Values are opaque bytes; encoding is the caller's concern.
package kv

import (
	"context"
)

type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
}
