package social

import (
	"context"
	"time"
)

// LinkStore persists identity links. Implementations must enforce a
// uniqueness constraint on the identity key: a second CreateLink for the
// same key returns ErrConflict, which the resolver treats as a lost
// provisioning race and retries the lookup once.
type LinkStore interface {
	// CreateLink inserts a new identity link. Returns ErrConflict when a
	// link for the key already exists.
	CreateLink(ctx context.Context, key IdentityKey, accountID string) error

	// FindAccountID returns the local account a key is linked to, or
	// ErrLinkNotFound.
	FindAccountID(ctx context.Context, key IdentityKey) (string, error)

	// DeleteLink removes a link. Returns ErrLinkNotFound when absent.
	DeleteLink(ctx context.Context, key IdentityKey) error

	// LinksForAccount lists the identity links attached to an account.
	LinksForAccount(ctx context.Context, accountID string) ([]IdentityLink, error)
}

// StateStore persists one-time state tokens used for CSRF protection during
// the provider handshake.
type StateStore interface {
	// StoreState stores a state token until expiresAt.
	StoreState(ctx context.Context, state string, expiresAt time.Time) error

	// ConsumeState atomically checks that a state exists and removes it.
	// Returns ErrStateNotFound if the state is absent or already consumed.
	ConsumeState(ctx context.Context, state string) error
}
