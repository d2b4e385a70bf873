package social

import (
	"net/url"
	"strings"
)

// BaseURLBuilder implements URLBuilder from a single application base URL
// and the broker's mount prefix.
type BaseURLBuilder struct {
	base         string
	mountPrefix  string
	settingsPath string
}

// NewBaseURLBuilder creates a URL builder. mountPrefix is where the broker
// routes are mounted (e.g. "/apps/sociallogin"); settingsPath is the
// linked-identities settings page (e.g. "/settings/user/connected-accounts").
func NewBaseURLBuilder(base, mountPrefix, settingsPath string) *BaseURLBuilder {
	return &BaseURLBuilder{
		base:         strings.TrimRight(base, "/"),
		mountPrefix:  mountPrefix,
		settingsPath: settingsPath,
	}
}

func (b *BaseURLBuilder) CallbackURL(flow, provider string) string {
	return b.base + b.mountPrefix + "/" + flow + "/" + url.PathEscape(provider)
}

func (b *BaseURLBuilder) SettingsURL() string {
	return b.base + b.settingsPath
}

func (b *BaseURLBuilder) RootURL() string {
	return b.base + "/"
}

// Compile-time interface assertion
var _ URLBuilder = (*BaseURLBuilder)(nil)
