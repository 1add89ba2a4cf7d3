// Package slots persists named opaque values in the local SQLite database.
// A slot is either absent or holds exactly one value.
package slots

import (
	"context"
)

type Repository interface {
	// Get returns (nil, nil) when the slot is absent.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put creates or replaces the slot value.
	Put(ctx context.Context, name string, value []byte) error
	// Delete removes the slot; deleting an absent slot is not an error.
	Delete(ctx context.Context, name string) error
}
