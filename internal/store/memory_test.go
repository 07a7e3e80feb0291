package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cafe-storefront/internal/models"
	"cafe-storefront/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestMemoryStoreCreateLoad(t *testing.T) {
	clock := newClock()
	s := NewMemoryStore(time.Hour).WithClock(clock.Now)
	ctx := context.Background()

	state := view.New("v1", clock.Now())
	require.NoError(t, s.Create(ctx, state))

	loaded, err := s.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "v1", loaded.ID)
	assert.Equal(t, view.TabMenu, loaded.ActiveTab)

	loaded.ActiveTab = view.TabCart
	again, err := s.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, view.TabMenu, again.ActiveTab, "loaded states must not alias the store")
}

func TestMemoryStoreUnknownView(t *testing.T) {
	s := NewMemoryStore(time.Hour)

	_, err := s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrViewNotFound)

	_, err = s.Update(context.Background(), "missing", func(*view.State) error { return nil })
	assert.ErrorIs(t, err, ErrViewNotFound)
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, view.New("v1", time.Now())))

	updated, err := s.Update(ctx, "v1", func(st *view.State) error {
		st.Cart.Add(models.Product{ID: 1, Name: "Latte", Price: 4.5}, 2, 0)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Cart.Len())

	loaded, err := s.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Cart.Lines[0].Quantity)
}

func TestMemoryStoreUpdateErrorDiscardsChanges(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, view.New("v1", time.Now())))

	boom := errors.New("boom")
	_, err := s.Update(ctx, "v1", func(st *view.State) error {
		st.ActiveTab = view.TabOrders
		return boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := s.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, view.TabMenu, loaded.ActiveTab)
}

func TestMemoryStoreSerializesUpdates(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, view.New("v1", time.Now())))
	latte := models.Product{ID: 1, Name: "Latte", Price: 4.5}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "v1", func(st *view.State) error {
				st.Cart.Add(latte, 1, 0)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	loaded, err := s.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 50, loaded.Cart.Lines[0].Quantity)
}

func TestMemoryStoreExpiryAndSweep(t *testing.T) {
	clock := newClock()
	s := NewMemoryStore(10 * time.Minute).WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, view.New("idle", clock.Now())))
	require.NoError(t, s.Create(ctx, view.New("busy", clock.Now())))

	clock.Advance(6 * time.Minute)
	_, err := s.Load(ctx, "busy")
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	assert.Equal(t, 1, s.Sweep(clock.Now()))
	assert.Equal(t, 1, s.Len())

	_, err = s.Load(ctx, "idle")
	assert.ErrorIs(t, err, ErrViewNotFound)

	clock.Advance(11 * time.Minute)
	_, err = s.Load(ctx, "busy")
	assert.ErrorIs(t, err, ErrViewNotFound)
}

func TestMemoryLocker(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	token, ok, err := l.Acquire(ctx, "submit:v1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.Acquire(ctx, "submit:v1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx, "submit:v1", "someone-else"))
	_, ok, _ = l.Acquire(ctx, "submit:v1", time.Minute)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx, "submit:v1", token))
	_, ok, _ = l.Acquire(ctx, "submit:v1", time.Minute)
	assert.True(t, ok)
}

func TestMemoryLockerExpires(t *testing.T) {
	clock := newClock()
	l := NewMemoryLocker()
	l.now = clock.Now
	ctx := context.Background()

	_, ok, _ := l.Acquire(ctx, "k", time.Second)
	require.True(t, ok)

	clock.Advance(2 * time.Second)
	_, ok, _ = l.Acquire(ctx, "k", time.Second)
	assert.True(t, ok)
}
