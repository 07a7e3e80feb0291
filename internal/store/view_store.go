// Package store keeps page view state between requests.
package store

import (
	"context"
	"errors"
	"time"

	"cafe-storefront/internal/view"
)

// ErrViewNotFound is returned for unknown or expired views
var ErrViewNotFound = errors.New("view not found")

// ViewStore persists view state for the lifetime of a page view. Update
// serializes concurrent mutations of the same view.
type ViewStore interface {
	Create(ctx context.Context, state *view.State) error
	Load(ctx context.Context, id string) (*view.State, error)
	Update(ctx context.Context, id string, fn func(*view.State) error) (*view.State, error)
	Delete(ctx context.Context, id string) error
}

// Locker hands out short-lived named locks
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

// Sweeper is implemented by stores that evict idle views themselves
type Sweeper interface {
	Sweep(now time.Time) int
}
