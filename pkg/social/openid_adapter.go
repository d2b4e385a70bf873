package social

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

type openIDAdapter struct {
	title    string
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	conf     *oauth2.Config
}

// NewOpenIDAdapter creates an adapter for an allow-listed OpenID provider.
// The caller resolves the title through ProviderTables.OpenIDURL first, so
// unknown titles are rejected before any network call; this constructor then
// runs issuer discovery against the resolved URL.
func NewOpenIDAdapter(ctx context.Context, title, issuerURL string, creds OAuthCredentials, callbackURL string) (ProviderAdapter, error) {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	ctx = oidc.ClientContext(ctx, httpClient)

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("%w: discovery for %q: %v", ErrProvider, title, err)
	}

	oidcConfig := &oidc.Config{ClientID: creds.ClientID}
	if creds.ClientID == "" {
		oidcConfig.SkipClientIDCheck = true
	}

	return &openIDAdapter{
		title:    title,
		provider: provider,
		verifier: provider.Verifier(oidcConfig),
		conf: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  callbackURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

func (a *openIDAdapter) Name() string { return a.title }

func (a *openIDAdapter) AuthURL(ctx context.Context, state string) (string, error) {
	return a.conf.AuthCodeURL(state), nil
}

// Authenticate exchanges the code, verifies the ID token, and normalizes the
// subject identifier to its final path segment.
func (a *openIDAdapter) Authenticate(ctx context.Context, code string) (Profile, error) {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok {
		return Profile{}, fmt.Errorf("%w: token response missing id_token", ErrProvider)
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	var claims struct {
		Subject string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if claims.Subject == "" {
		return Profile{}, fmt.Errorf("%w: id token missing subject", ErrProvider)
	}

	return Profile{
		Identifier:  NormalizeOpenIDIdentifier(claims.Subject),
		DisplayName: claims.Name,
		Email:       claims.Email,
		PhotoURL:    claims.Picture,
	}, nil
}

// Compile-time interface assertion
var _ ProviderAdapter = (*openIDAdapter)(nil)
