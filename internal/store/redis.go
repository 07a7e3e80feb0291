package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cafe-storefront/internal/redisclient"
	"cafe-storefront/internal/view"

	"github.com/google/uuid"
)

const viewKind = "view"

// RedisStore keeps views in Redis so any storefront replica can serve them
type RedisStore struct {
	redis *redisclient.Client
	ttl   time.Duration
}

func NewRedisStore(client *redisclient.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: client, ttl: ttl}
}

func (r *RedisStore) Create(ctx context.Context, state *view.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode view: %w", err)
	}
	return r.redis.SetDocument(ctx, viewKind, state.ID, raw, r.ttl)
}

func (r *RedisStore) Load(ctx context.Context, id string) (*view.State, error) {
	raw, err := r.redis.GetDocument(ctx, viewKind, id, r.ttl)
	if errors.Is(err, redisclient.ErrNotFound) {
		return nil, ErrViewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load view %s: %w", id, err)
	}
	return decodeState(raw)
}

func (r *RedisStore) Update(ctx context.Context, id string, fn func(*view.State) error) (*view.State, error) {
	var updated *view.State

	err := r.redis.UpdateDocument(ctx, viewKind, id, r.ttl, func(current []byte) ([]byte, error) {
		state, err := decodeState(current)
		if err != nil {
			return nil, err
		}
		if err := fn(state); err != nil {
			return nil, err
		}
		updated = state
		return json.Marshal(state)
	})
	if errors.Is(err, redisclient.ErrNotFound) {
		return nil, ErrViewNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.redis.DeleteDocument(ctx, viewKind, id)
}

// RedisLocker shares locks between storefront replicas
type RedisLocker struct {
	redis *redisclient.Client
}

func NewRedisLocker(client *redisclient.Client) *RedisLocker {
	return &RedisLocker{redis: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.New().String()
	ok, err := l.redis.AcquireLock(ctx, key, token, ttl)
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (l *RedisLocker) Release(ctx context.Context, key, token string) error {
	return l.redis.ReleaseLock(ctx, key, token)
}
