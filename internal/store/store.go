package store

import (
	"context"
	"errors"
)

// KV is the durable single-key snapshot store. No transactional guarantees
// beyond atomic single-key set; at most one writer at a time is assumed and
// last write wins.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
