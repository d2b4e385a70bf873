package social

import "time"

// Profile is the normalized user profile returned by a provider adapter.
// It is produced once per authentication attempt and read-only downstream.
type Profile struct {
	// Identifier is the provider's stable user identifier, represented as a
	// string. Implementations should convert numeric IDs to string.
	Identifier string

	// DisplayName is the human-readable name from the provider (optional).
	DisplayName string

	// Email is the email address from the provider (optional).
	Email string

	// PhotoURL points to the user's avatar image (optional).
	PhotoURL string
}

// SessionState describes the caller's session at resolution time. It is
// supplied by the session capability and never owned by this package.
type SessionState struct {
	Authenticated bool
	AccountID     string
}

// IdentityLink associates an external identity key with a local account.
// Links are never mutated; they are deleted only via Disconnect.
type IdentityLink struct {
	Key       IdentityKey
	AccountID string
	CreatedAt time.Time
}

// Account is the minimal view of a local account the broker needs.
type Account struct {
	ID          string
	DisplayName string
	Email       string
}

// LoginResult is the outcome of a successful resolution.
type LoginResult struct {
	// AccountID is the local account the external identity resolved to.
	AccountID string

	// Token is the session token issued by the session capability. Empty
	// when the attempt linked the identity to an existing session instead
	// of logging in.
	Token string

	// Linked reports whether the attempt attached the identity to the
	// current session's account rather than completing a login.
	Linked bool

	// RedirectTo is the absolute URL the caller should be redirected to.
	RedirectTo string
}
