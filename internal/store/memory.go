package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cafe-storefront/internal/view"

	"github.com/google/uuid"
)

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

// MemoryStore keeps views in process memory. States are stored encoded so
// callers never share pointers with the store.
type MemoryStore struct {
	mu    sync.Mutex
	views map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore creates an in-memory view store with idle expiry ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		views: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock replaces the store's clock
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Create(ctx context.Context, state *view.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode view: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[state.ID] = memoryEntry{raw: raw, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*view.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.live(id)
	if err != nil {
		return nil, err
	}
	entry.expires = m.now().Add(m.ttl)
	m.views[id] = entry
	return decodeState(entry.raw)
}

func (m *MemoryStore) Update(ctx context.Context, id string, fn func(*view.State) error) (*view.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.live(id)
	if err != nil {
		return nil, err
	}
	state, err := decodeState(entry.raw)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode view: %w", err)
	}
	m.views[id] = memoryEntry{raw: raw, expires: m.now().Add(m.ttl)}
	return state, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.views, id)
	return nil
}

// Sweep evicts views idle past their expiry and reports how many went
func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, entry := range m.views {
		if !now.Before(entry.expires) {
			delete(m.views, id)
			evicted++
		}
	}
	return evicted
}

// Len reports how many views are held
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

// live must be called with mu held
func (m *MemoryStore) live(id string) (memoryEntry, error) {
	entry, ok := m.views[id]
	if !ok {
		return memoryEntry{}, ErrViewNotFound
	}
	if !m.now().Before(entry.expires) {
		delete(m.views, id)
		return memoryEntry{}, ErrViewNotFound
	}
	return entry, nil
}

func decodeState(raw []byte) (*view.State, error) {
	var state view.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode view: %w", err)
	}
	return &state, nil
}

type memoryLock struct {
	token   string
	expires time.Time
}

// MemoryLocker is a process-local Locker
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]memoryLock
	now   func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		locks: make(map[string]memoryLock),
		now:   time.Now,
	}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if held, ok := l.locks[key]; ok && now.Before(held.expires) {
		return "", false, nil
	}
	token := uuid.New().String()
	l.locks[key] = memoryLock{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (l *MemoryLocker) Release(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if held, ok := l.locks[key]; ok && held.token == token {
		delete(l.locks, key)
	}
	return nil
}
