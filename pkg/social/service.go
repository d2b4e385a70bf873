package social

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/socialconnect/broker/pkg/logger"
)

// AvatarImporter fetches a profile photo and stores it as the account
// avatar. Import failures never block provisioning.
type AvatarImporter interface {
	Import(ctx context.Context, accountID, photoURL string) error
}

// Service is the account resolver: given a freshly authenticated external
// profile, it decides whether to log in an existing account, link the
// identity to the current session's account, or provision a new one, then
// finalizes the login through the session capability.
type Service struct {
	links    LinkStore
	states   StateStore
	accounts AccountDirectory
	sessions SessionManager
	settings Settings
	urls     URLBuilder

	groups   GroupDirectory
	avatars  AvatarImporter
	logger   *slog.Logger
	stateTTL time.Duration
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger configures the logger. Defaults to a discard handler.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithGroupDirectory enables new-account group assignment.
func WithGroupDirectory(g GroupDirectory) Option {
	return func(s *Service) { s.groups = g }
}

// WithAvatarImporter enables avatar import during provisioning.
func WithAvatarImporter(a AvatarImporter) Option {
	return func(s *Service) { s.avatars = a }
}

// WithStateTTL configures the TTL for handshake state tokens.
func WithStateTTL(ttl time.Duration) Option {
	return func(s *Service) { s.stateTTL = ttl }
}

// NewService constructs the resolver. Group assignment and avatar import are
// optional; everything else is required.
func NewService(links LinkStore, states StateStore, accounts AccountDirectory, sessions SessionManager, settings Settings, urls URLBuilder, opts ...Option) *Service {
	s := &Service{
		links:    links,
		states:   states,
		accounts: accounts,
		sessions: sessions,
		settings: settings,
		urls:     urls,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		stateTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthURL generates the provider authorization URL with CSRF protection via
// a one-time state token.
func (s *Service) AuthURL(ctx context.Context, adapter ProviderAdapter) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	if err := s.states.StoreState(ctx, state, time.Now().Add(s.stateTTL)); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}
	url, err := adapter.AuthURL(ctx, state)
	if err != nil {
		return "", fmt.Errorf("failed to build auth url: %w", err)
	}
	return url, nil
}

// Login handles the provider callback: completes the handshake through the
// adapter and resolves the external identity to a local account.
//
// No state is committed until the profile is fully obtained; link creation
// and provisioning are the last steps, so an aborted handshake leaves no
// partial IdentityLink or account behind.
func (s *Service) Login(ctx context.Context, adapter ProviderAdapter, code, state string) (*LoginResult, error) {
	if err := s.states.ConsumeState(ctx, state); err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("failed to validate state: %w", err)
	}

	profile, err := adapter.Authenticate(ctx, code)
	if err != nil {
		return nil, err
	}
	if profile.Identifier == "" {
		return nil, fmt.Errorf("%w: profile missing identifier", ErrProvider)
	}

	key := NewIdentityKey(adapter.Name(), profile.Identifier)

	result, err := s.resolve(ctx, key, profile)
	if errors.Is(err, ErrConflict) {
		// Lost a provisioning race: another request committed the same key
		// between our lookup and insert. The store rejected the second
		// write, so rerunning the lookup now finds the winner.
		s.logger.Warn("identity key conflict, retrying resolution",
			logger.Component("social"),
			logger.IdentityKey(key.String()),
		)
		result, err = s.resolve(ctx, key, profile)
	}
	return result, err
}

// Disconnect removes the identity link for a key after verifying it belongs
// to the given account; a caller may only unlink their own identities.
// Resolution semantics are unaffected; accounts whose id equals the key keep
// matching directly.
func (s *Service) Disconnect(ctx context.Context, key IdentityKey, accountID string) error {
	owner, err := s.links.FindAccountID(ctx, key)
	if err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to look up identity link: %w", err)
	}
	if owner != accountID {
		return ErrNotLinkOwner
	}

	if err := s.links.DeleteLink(ctx, key); err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to disconnect %s: %w", key, err)
	}
	return nil
}

// resolve runs the match precedence and the decision table once. ErrConflict
// from CreateLink or CreateAccount propagates to the caller for the single
// retry.
func (s *Service) resolve(ctx context.Context, key IdentityKey, profile Profile) (*LoginResult, error) {
	accountID, found, err := s.match(ctx, key)
	if err != nil {
		return nil, err
	}

	session := s.sessions.State(ctx)

	switch {
	case found && session.Authenticated:
		// A logged-in user may not take over a key that already resolves
		// to an account, even their own via a stale second attempt.
		return nil, ErrAlreadyLinked

	case found:
		return s.finalize(ctx, accountID)

	case session.Authenticated:
		if err := s.links.CreateLink(ctx, key, session.AccountID); err != nil {
			return nil, err
		}
		return &LoginResult{
			AccountID:  session.AccountID,
			Linked:     true,
			RedirectTo: s.urls.SettingsURL(),
		}, nil

	default:
		disabled, err := s.settings.AppSetting(ctx, SettingDisableRegistration)
		if err != nil {
			return nil, fmt.Errorf("failed to read registration setting: %w", err)
		}
		if registrationDisabled(disabled) {
			return nil, ErrRegistrationDisabled
		}
		account, err := s.provision(ctx, key, profile)
		if err != nil {
			return nil, err
		}
		return s.finalize(ctx, account.ID)
	}
}

// match applies the resolution precedence. The direct check runs first and
// is never merged into the link lookup: accounts created before the link
// store existed carry the key as their account id, and only this ordering
// keeps them logging in.
func (s *Service) match(ctx context.Context, key IdentityKey) (string, bool, error) {
	account, err := s.accounts.GetAccountByID(ctx, key.String())
	if err == nil {
		return account.ID, true, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return "", false, fmt.Errorf("failed to look up account: %w", err)
	}

	accountID, err := s.links.FindAccountID(ctx, key)
	if err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to look up identity link: %w", err)
	}

	// A link whose target account no longer exists is stale. Remove it
	// before reporting the key as unmatched: a later CreateLink for the
	// same key must not collide with the orphaned row.
	if _, err := s.accounts.GetAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			if err := s.links.DeleteLink(ctx, key); err != nil && !errors.Is(err, ErrLinkNotFound) {
				return "", false, fmt.Errorf("failed to remove stale identity link: %w", err)
			}
			s.logger.Warn("removed stale identity link",
				logger.Component("social"),
				logger.IdentityKey(key.String()),
				logger.AccountID(accountID),
			)
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to look up linked account: %w", err)
	}
	return accountID, true, nil
}

// provision creates a new local account bound to the key. Display name,
// email, group membership, and avatar import are advisory: failures are
// logged and never fail the login.
func (s *Service) provision(ctx context.Context, key IdentityKey, profile Profile) (*Account, error) {
	password, err := generatePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	account, err := s.accounts.CreateAccount(ctx, key.String(), password)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if profile.DisplayName != "" {
		if err := s.accounts.SetDisplayName(ctx, account.ID, profile.DisplayName); err != nil {
			s.logger.Warn("failed to set display name",
				logger.Component("social"),
				logger.AccountID(account.ID),
				logger.Error(err),
			)
		}
	}
	if profile.Email != "" {
		if err := s.accounts.SetEmail(ctx, account.ID, profile.Email); err != nil {
			s.logger.Warn("failed to set email",
				logger.Component("social"),
				logger.AccountID(account.ID),
				logger.Error(err),
			)
		}
	}

	s.joinNewUserGroup(ctx, account.ID)

	if profile.PhotoURL != "" && s.avatars != nil {
		if err := s.avatars.Import(ctx, account.ID, profile.PhotoURL); err != nil {
			s.logger.Warn("failed to import avatar",
				logger.Component("social"),
				logger.AccountID(account.ID),
				logger.Error(err),
			)
		}
	}

	return account, nil
}

// joinNewUserGroup adds the account to the configured new-user group.
// Advisory: lookup and membership failures are logged, never propagated.
func (s *Service) joinNewUserGroup(ctx context.Context, accountID string) {
	if s.groups == nil {
		return
	}
	name, err := s.settings.AppSetting(ctx, SettingNewUserGroup)
	if err != nil || name == "" {
		return
	}
	group, err := s.groups.Group(ctx, name)
	if err != nil {
		s.logger.Warn("failed to resolve new user group",
			logger.Component("social"),
			slog.String("group", name),
			logger.Error(err),
		)
		return
	}
	if err := group.AddMember(ctx, accountID); err != nil {
		s.logger.Warn("failed to add account to new user group",
			logger.Component("social"),
			slog.String("group", name),
			logger.AccountID(accountID),
			logger.Error(err),
		)
	}
}

// finalize clears the legacy per-user password value and completes the login
// through the session capability. Errors here are terminal for the request.
func (s *Service) finalize(ctx context.Context, accountID string) (*LoginResult, error) {
	// Leftover from earlier versions that stored a per-user password value.
	// Idempotent, no-op when absent.
	if err := s.settings.DeleteUserSetting(ctx, accountID, legacyPasswordSetting); err != nil {
		return nil, fmt.Errorf("failed to clear legacy password value: %w", err)
	}

	if err := s.sessions.CompleteLogin(ctx, accountID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	token, err := s.sessions.IssueToken(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	return &LoginResult{
		AccountID:  accountID,
		Token:      token,
		RedirectTo: s.urls.RootURL(),
	}, nil
}

// registrationDisabled interprets the disable_registration setting. Empty,
// "0", and "false" leave registration enabled; any other non-empty value
// disables it.
func registrationDisabled(value string) bool {
	if value == "" {
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return true
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// generatePassword returns an opaque secret meeting the account directory's
// creation requirements. It is never exposed to the end user and not used
// for subsequent logins.
func generatePassword() (string, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b)[:30], nil
}
