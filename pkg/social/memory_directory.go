package social

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MemoryAccountDirectory implements AccountDirectory in memory. Intended for
// development and tests; real deployments adapt the host system's user
// directory instead. Passwords are stored bcrypt-hashed, mirroring what a
// real directory would require of the generated provisioning secret.
type MemoryAccountDirectory struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	hashes   map[string][]byte
}

// NewMemoryAccountDirectory creates an empty in-memory directory.
func NewMemoryAccountDirectory() *MemoryAccountDirectory {
	return &MemoryAccountDirectory{
		accounts: make(map[string]*Account),
		hashes:   make(map[string][]byte),
	}
}

func (d *MemoryAccountDirectory) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	account, exists := d.accounts[id]
	if !exists {
		return nil, ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (d *MemoryAccountDirectory) CreateAccount(ctx context.Context, id, password string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.accounts[id]; exists {
		return nil, ErrConflict
	}
	account := &Account{ID: id}
	d.accounts[id] = account
	d.hashes[id] = hash

	copied := *account
	return &copied, nil
}

func (d *MemoryAccountDirectory) SetDisplayName(ctx context.Context, id, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	account, exists := d.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	account.DisplayName = name
	return nil
}

func (d *MemoryAccountDirectory) SetEmail(ctx context.Context, id, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	account, exists := d.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	account.Email = email
	return nil
}

// VerifyPassword checks a password against the stored hash. Exposed so tests
// can assert the generated provisioning secret satisfies the directory.
func (d *MemoryAccountDirectory) VerifyPassword(id, password string) bool {
	d.mu.RLock()
	hash, exists := d.hashes[id]
	d.mu.RUnlock()
	if !exists {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// Compile-time interface assertion
var _ AccountDirectory = (*MemoryAccountDirectory)(nil)
