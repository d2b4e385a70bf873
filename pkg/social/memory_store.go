package social

import (
	"context"
	"sync"
	"time"
)

// MemoryLinkStore implements LinkStore using in-memory storage. Intended for
// development and tests; production deployments use PostgresLinkStore.
type MemoryLinkStore struct {
	mu    sync.RWMutex
	links map[IdentityKey]IdentityLink
}

// NewMemoryLinkStore creates a new in-memory link store.
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{links: make(map[IdentityKey]IdentityLink)}
}

func (m *MemoryLinkStore) CreateLink(ctx context.Context, key IdentityKey, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[key]; exists {
		return ErrConflict
	}
	m.links[key] = IdentityLink{Key: key, AccountID: accountID, CreatedAt: time.Now()}
	return nil
}

func (m *MemoryLinkStore) FindAccountID(ctx context.Context, key IdentityKey) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.links[key]
	if !exists {
		return "", ErrLinkNotFound
	}
	return link.AccountID, nil
}

func (m *MemoryLinkStore) DeleteLink(ctx context.Context, key IdentityKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[key]; !exists {
		return ErrLinkNotFound
	}
	delete(m.links, key)
	return nil
}

func (m *MemoryLinkStore) LinksForAccount(ctx context.Context, accountID string) ([]IdentityLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []IdentityLink
	for _, link := range m.links {
		if link.AccountID == accountID {
			out = append(out, link)
		}
	}
	return out, nil
}

// MemoryStateStore implements StateStore using in-memory storage.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

// NewMemoryStateStore creates a new in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]time.Time)}
}

func (m *MemoryStateStore) StoreState(ctx context.Context, state string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[state] = expiresAt
	return nil
}

func (m *MemoryStateStore) ConsumeState(ctx context.Context, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt, exists := m.states[state]
	if !exists {
		return ErrStateNotFound
	}
	delete(m.states, state)
	if time.Now().After(expiresAt) {
		return ErrStateNotFound
	}
	return nil
}

// Compile-time interface assertions
var (
	_ LinkStore  = (*MemoryLinkStore)(nil)
	_ StateStore = (*MemoryStateStore)(nil)
)
