package social

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultCredentialKey is the entry field OAuth2 provider tables store the
// application id under.
const DefaultCredentialKey = "appid"

// DefaultCredentialKeyOverrides maps provider titles to the entry field
// holding their application id when it differs from DefaultCredentialKey.
// Twitter is a legacy quirk inherited from earlier versions; the table is
// configurable rather than hardcoded so further overrides need no code
// change.
var DefaultCredentialKeyOverrides = map[string]string{
	"twitter": "key",
}

// OAuthCredentials are the application credentials for one OAuth2 provider.
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
}

// OpenIDProvider is one allow-list entry for the OpenID flow.
type OpenIDProvider struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// ProviderTables holds the parsed provider credential configuration for one
// request. It is constructed from the settings store per request, never read
// from ambient global state.
type ProviderTables struct {
	OAuth  map[string]OAuthCredentials
	OpenID []OpenIDProvider
}

// OpenIDURL resolves a provider title through the allow-list. Returns
// ErrUnknownProvider when the title is not configured.
func (t ProviderTables) OpenIDURL(title string) (string, error) {
	for _, p := range t.OpenID {
		if p.Title == title {
			return p.URL, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, title)
}

// ParseOAuthProviders parses the oauth_providers settings value, a JSON
// object mapping provider title to its credential entry. The application id
// is read from the field named by the override table, falling back to
// DefaultCredentialKey.
func ParseOAuthProviders(raw string, overrides map[string]string) (map[string]OAuthCredentials, error) {
	if raw == "" {
		return map[string]OAuthCredentials{}, nil
	}
	var entries map[string]map[string]string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("parse oauth_providers: %w", err)
	}

	out := make(map[string]OAuthCredentials, len(entries))
	for title, entry := range entries {
		idKey := DefaultCredentialKey
		if k, ok := overrides[title]; ok {
			idKey = k
		}
		out[title] = OAuthCredentials{
			ClientID:     entry[idKey],
			ClientSecret: entry["secret"],
		}
	}
	return out, nil
}

// ParseOpenIDProviders parses the openid_providers settings value, a JSON
// array of {title, url} entries in configured order.
func ParseOpenIDProviders(raw string) ([]OpenIDProvider, error) {
	if raw == "" {
		return nil, nil
	}
	var providers []OpenIDProvider
	if err := json.Unmarshal([]byte(raw), &providers); err != nil {
		return nil, fmt.Errorf("parse openid_providers: %w", err)
	}
	return providers, nil
}

// LoadProviderTables reads both provider tables from the settings store.
func LoadProviderTables(ctx context.Context, settings Settings, overrides map[string]string) (ProviderTables, error) {
	rawOAuth, err := settings.AppSetting(ctx, SettingOAuthProviders)
	if err != nil {
		return ProviderTables{}, fmt.Errorf("read oauth_providers: %w", err)
	}
	oauth, err := ParseOAuthProviders(rawOAuth, overrides)
	if err != nil {
		return ProviderTables{}, err
	}

	rawOpenID, err := settings.AppSetting(ctx, SettingOpenIDProviders)
	if err != nil {
		return ProviderTables{}, fmt.Errorf("read openid_providers: %w", err)
	}
	openid, err := ParseOpenIDProviders(rawOpenID)
	if err != nil {
		return ProviderTables{}, err
	}

	return ProviderTables{OAuth: oauth, OpenID: openid}, nil
}

// StaticSettings is an in-memory Settings implementation for development and
// tests.
type StaticSettings struct {
	mu   sync.RWMutex
	app  map[string]string
	user map[string]map[string]string
}

// NewStaticSettings creates a settings store seeded with the given
// application values.
func NewStaticSettings(app map[string]string) *StaticSettings {
	if app == nil {
		app = make(map[string]string)
	}
	return &StaticSettings{app: app, user: make(map[string]map[string]string)}
}

func (s *StaticSettings) AppSetting(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.app[key], nil
}

func (s *StaticSettings) DeleteUserSetting(ctx context.Context, accountID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if values, ok := s.user[accountID]; ok {
		delete(values, key)
	}
	return nil
}

// SetUserSetting stores a per-user value. Exposed for tests exercising the
// legacy cleanup path.
func (s *StaticSettings) SetUserSetting(accountID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user[accountID] == nil {
		s.user[accountID] = make(map[string]string)
	}
	s.user[accountID][key] = value
}

// UserSetting reads back a per-user value. Exposed for tests.
func (s *StaticSettings) UserSetting(accountID, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values, ok := s.user[accountID]
	if !ok {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

// settingsFile is the YAML shape consumed by NewSettingsFromFile.
type settingsFile struct {
	Settings        map[string]string            `yaml:"settings"`
	OAuthProviders  map[string]map[string]string `yaml:"oauth_providers"`
	OpenIDProviders []OpenIDProvider             `yaml:"openid_providers"`
}

// NewSettingsFromFile loads a StaticSettings from a YAML file. Provider
// tables are stored back as JSON values, the format the settings store
// contract uses.
func NewSettingsFromFile(path string) (*StaticSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	var file settingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}

	app := make(map[string]string, len(file.Settings)+2)
	for k, v := range file.Settings {
		app[k] = v
	}
	if len(file.OAuthProviders) > 0 {
		raw, err := json.Marshal(file.OAuthProviders)
		if err != nil {
			return nil, fmt.Errorf("encode oauth_providers: %w", err)
		}
		app[SettingOAuthProviders] = string(raw)
	}
	if len(file.OpenIDProviders) > 0 {
		raw, err := json.Marshal(file.OpenIDProviders)
		if err != nil {
			return nil, fmt.Errorf("encode openid_providers: %w", err)
		}
		app[SettingOpenIDProviders] = string(raw)
	}
	return NewStaticSettings(app), nil
}

// Compile-time interface assertion
var _ Settings = (*StaticSettings)(nil)
