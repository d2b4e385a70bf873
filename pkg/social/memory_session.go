package social

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemorySessionManager implements SessionManager for a single caller's
// session. Intended for development and tests; real deployments adapt the
// host system's session capability.
type MemorySessionManager struct {
	mu     sync.RWMutex
	state  SessionState
	tokens map[string]string
}

// NewMemorySessionManager creates an unauthenticated session.
func NewMemorySessionManager() *MemorySessionManager {
	return &MemorySessionManager{tokens: make(map[string]string)}
}

// Authenticate marks the session as logged in as the given account. Exposed
// so tests can model an already-authenticated caller.
func (m *MemorySessionManager) Authenticate(accountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = SessionState{Authenticated: true, AccountID: accountID}
}

func (m *MemorySessionManager) State(ctx context.Context) SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *MemorySessionManager) CompleteLogin(ctx context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = SessionState{Authenticated: true, AccountID: accountID}
	return nil
}

func (m *MemorySessionManager) IssueToken(ctx context.Context, accountID string) (string, error) {
	token := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = accountID
	return token, nil
}

// AccountForToken resolves an issued token back to its account. Exposed for
// tests.
func (m *MemorySessionManager) AccountForToken(token string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.tokens[token]
	return id, ok
}

// Compile-time interface assertion
var _ SessionManager = (*MemorySessionManager)(nil)
