package social

import (
	"regexp"
	"strings"
)

// IdentityKey is the canonical external identity key in the form
// "<provider>-<providerNativeID>". It is unique per external account and
// immutable once created.
type IdentityKey string

func (k IdentityKey) String() string { return string(k) }

// unsafeKeyChars matches everything outside the key-safe character class.
var unsafeKeyChars = regexp.MustCompile(`[^0-9a-zA-Z_.@-]`)

// SanitizeID strips every character outside [0-9a-zA-Z_.@-] from a
// provider-native identifier. Applied uniformly to both the OAuth2 and the
// OpenID path so the composed keys can never collide through unsanitized
// input.
func SanitizeID(id string) string {
	return unsafeKeyChars.ReplaceAllString(id, "")
}

// NewIdentityKey composes the canonical key for a provider and a
// provider-native identifier, sanitizing the identifier first.
func NewIdentityKey(provider, id string) IdentityKey {
	return IdentityKey(provider + "-" + SanitizeID(id))
}

// NormalizeOpenIDIdentifier reduces an OpenID identifier URL to its final
// path segment. "https://example.com/users/alice/" becomes "alice". A bare
// identifier without path separators passes through unchanged.
func NormalizeOpenIDIdentifier(identifier string) string {
	id := strings.TrimRight(identifier, "/")
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return id
}
