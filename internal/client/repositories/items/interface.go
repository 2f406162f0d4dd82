package items

import (
	"context"
)

// Repository is a byte-oriented key/value table.
type Repository interface {
	// Get returns the value under key; found is false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set inserts or replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
