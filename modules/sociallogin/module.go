// Package sociallogin exposes the social login broker as a mountable HTTP
// module: the provider callback routes and the disconnect route, as thin
// handlers over the resolver in pkg/social.
package sociallogin

import (
	"context"
	"log/slog"

	"github.com/socialconnect/broker/pkg/logger"
	"github.com/socialconnect/broker/pkg/social"
)

// oauthFactory builds an OAuth2 adapter from per-request credentials.
type oauthFactory func(name string, creds social.OAuthCredentials, callbackURL string) (social.ProviderAdapter, error)

// openIDFactory builds an OpenID adapter from an allow-list entry.
type openIDFactory func(ctx context.Context, title, issuerURL string, creds social.OAuthCredentials, callbackURL string) (social.ProviderAdapter, error)

// Module wires the broker routes to a Service. Provider credential tables
// are re-read from the settings store on every request, so admin changes
// apply without a restart.
type Module struct {
	svc      *social.Service
	settings social.Settings
	sessions social.SessionManager
	urls     social.URLBuilder

	overrides map[string]string
	logger    *slog.Logger

	newOAuth  oauthFactory
	newOpenID openIDFactory
}

// ModuleOption configures a Module.
type ModuleOption func(*Module)

// WithLogger configures the module logger.
func WithLogger(l *slog.Logger) ModuleOption {
	return func(m *Module) { m.logger = l }
}

// WithCredentialKeyOverrides replaces the per-provider credential key-name
// override table used when parsing the oauth_providers setting.
func WithCredentialKeyOverrides(overrides map[string]string) ModuleOption {
	return func(m *Module) { m.overrides = overrides }
}

// withOAuthFactory replaces the OAuth2 adapter constructor. Used by tests.
func withOAuthFactory(f oauthFactory) ModuleOption {
	return func(m *Module) { m.newOAuth = f }
}

// withOpenIDFactory replaces the OpenID adapter constructor. Used by tests.
func withOpenIDFactory(f openIDFactory) ModuleOption {
	return func(m *Module) { m.newOpenID = f }
}

// New creates the HTTP module around a resolver service.
func New(svc *social.Service, settings social.Settings, sessions social.SessionManager, urls social.URLBuilder, opts ...ModuleOption) *Module {
	m := &Module{
		svc:       svc,
		settings:  settings,
		sessions:  sessions,
		urls:      urls,
		overrides: social.DefaultCredentialKeyOverrides,
		logger:    logger.NewDiscard(),
		newOAuth:  social.NewOAuth2Adapter,
		newOpenID: social.NewOpenIDAdapter,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
