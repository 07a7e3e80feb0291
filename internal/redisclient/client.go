package redisclient

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/release_lock.lua
var releaseLockScript string

// maxWatchRetries bounds optimistic transaction retries on contended keys
const maxWatchRetries = 8

// ErrNotFound is returned when a key does not exist
var ErrNotFound = errors.New("redis key not found")

// ErrContended is returned when a watched key kept changing under us
var ErrContended = errors.New("redis key contended")

type Client struct {
	rdb           *redis.Client
	prefix        string
	releaseScript *redis.Script
}

// NewClient creates a new Redis client. Every key is namespaced with prefix.
func NewClient(addr, password string, db int, prefix string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:           rdb,
		prefix:        prefix,
		releaseScript: redis.NewScript(releaseLockScript),
	}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) key(kind, id string) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, kind, id)
}

// GetDocument reads a document and slides its expiry forward by ttl
func (c *Client) GetDocument(ctx context.Context, kind, id string, ttl time.Duration) ([]byte, error) {
	key := c.key(kind, id)

	pipe := c.rdb.TxPipeline()
	get := pipe.Get(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	raw, err := get.Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return raw, err
}

// SetDocument writes a document with ttl
func (c *Client) SetDocument(ctx context.Context, kind, id string, raw []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(kind, id), raw, ttl).Err()
}

// DeleteDocument removes a document
func (c *Client) DeleteDocument(ctx context.Context, kind, id string) error {
	return c.rdb.Del(ctx, c.key(kind, id)).Err()
}

// UpdateDocument applies fn to a document inside a WATCH/MULTI transaction,
// retrying when another writer changed the key first. fn receives the
// current bytes and returns the replacement.
func (c *Client) UpdateDocument(ctx context.Context, kind, id string, ttl time.Duration, fn func(current []byte) ([]byte, error)) error {
	key := c.key(kind, id)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := c.rdb.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			continue
		}
		return err
	}
	return fmt.Errorf("%w: %s", ErrContended, key)
}

// AcquireLock takes a lock owned by token if nobody holds it
func (c *Client) AcquireLock(ctx context.Context, lockKey, token string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, c.key("lock", lockKey), token, ttl).Result()
}

// ReleaseLock drops the lock only if token still owns it
func (c *Client) ReleaseLock(ctx context.Context, lockKey, token string) error {
	_, err := c.releaseScript.Run(ctx, c.rdb, []string{c.key("lock", lockKey)}, token).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("release lock script failed: %w", err)
	}
	return nil
}
