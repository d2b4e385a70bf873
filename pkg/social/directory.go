package social

import "context"

// AccountDirectory is the host system's user directory. The broker never
// owns accounts; it only looks them up and, on first-time login, asks the
// directory to create one.
type AccountDirectory interface {
	// GetAccountByID returns the account with the given id, or
	// ErrAccountNotFound.
	GetAccountByID(ctx context.Context, id string) (*Account, error)

	// CreateAccount creates a new account with the given id and initial
	// password. Returns ErrConflict when the id is already taken.
	CreateAccount(ctx context.Context, id, password string) (*Account, error)

	SetDisplayName(ctx context.Context, id, name string) error
	SetEmail(ctx context.Context, id, email string) error
}

// Group is a membership target resolved from the group directory.
type Group interface {
	AddMember(ctx context.Context, accountID string) error
}

// GroupDirectory resolves group names to membership targets.
type GroupDirectory interface {
	// Group returns the named group or an error when it does not exist.
	Group(ctx context.Context, name string) (Group, error)
}

// SessionManager is the external session capability. The broker reads the
// current session state at resolution time and invokes CompleteLogin and
// IssueToken to finalize a login.
type SessionManager interface {
	// State returns the caller's current session state.
	State(ctx context.Context) SessionState

	// CompleteLogin marks the request as authenticated for the account.
	CompleteLogin(ctx context.Context, accountID string) error

	// IssueToken issues a session token bound to the account.
	IssueToken(ctx context.Context, accountID string) (string, error)
}

// Settings is the host system's application settings store. It supplies the
// provider credential tables and broker flags, and carries the legacy
// per-user values the broker cleans up.
type Settings interface {
	// AppSetting returns the application-level value for key, or an empty
	// string when unset.
	AppSetting(ctx context.Context, key string) (string, error)

	// DeleteUserSetting removes a per-user value. Deleting an absent value
	// is a no-op.
	DeleteUserSetting(ctx context.Context, accountID, key string) error
}

// URLBuilder produces the absolute URLs the broker redirects to and the
// callback addresses it hands to provider adapters.
type URLBuilder interface {
	// CallbackURL returns the absolute callback address for a flow
	// ("oauth" or "openid") and provider name.
	CallbackURL(flow, provider string) string

	// SettingsURL returns the linked-identities settings page.
	SettingsURL() string

	// RootURL returns the application root.
	RootURL() string
}

// Well-known application setting keys consumed by the broker.
const (
	SettingOAuthProviders      = "oauth_providers"
	SettingOpenIDProviders     = "openid_providers"
	SettingDisableRegistration = "disable_registration"
	SettingNewUserGroup        = "new_user_group"

	// legacyPasswordSetting is the per-user value earlier broker versions
	// stored and current versions delete on every successful login.
	legacyPasswordSetting = "password"
)
