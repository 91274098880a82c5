// Package metadata is a small key-value repository over the local database.
// It backs durable auth state and the per-token guest identity slots.
package metadata

import (
	"context"
)

// Repository describes key-value operations over local metadata.
// A missing key reads as a nil value, not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
