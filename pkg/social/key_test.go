package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeID(t *testing.T) {
	t.Parallel()

	t.Run("keeps safe characters", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "user_1.name@host-x", SanitizeID("user_1.name@host-x"))
	})

	t.Run("strips unsafe characters", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "alice", SanitizeID("a<l>i&c e!"))
		assert.Equal(t, "httpsexample.comusersalice", SanitizeID("https://example.com/users/alice"))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", SanitizeID(""))
	})
}

func TestNewIdentityKey(t *testing.T) {
	t.Parallel()

	t.Run("composes provider and id", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, IdentityKey("google-12345"), NewIdentityKey("google", "12345"))
	})

	t.Run("sanitizes the native id", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, IdentityKey("github-alice"), NewIdentityKey("github", "al/ice"))
	})
}

func TestNormalizeOpenIDIdentifier(t *testing.T) {
	t.Parallel()

	t.Run("url identifier keeps final segment", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "alice", NormalizeOpenIDIdentifier("https://example.com/users/alice/"))
	})

	t.Run("no trailing slash", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "bob", NormalizeOpenIDIdentifier("https://example.com/id/bob"))
	})

	t.Run("bare identifier passes through", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "carol", NormalizeOpenIDIdentifier("carol"))
	})

	t.Run("full pipeline matches key form", func(t *testing.T) {
		t.Parallel()
		id := NormalizeOpenIDIdentifier("https://example.com/users/alice/")
		assert.Equal(t, IdentityKey("myopenid-alice"), NewIdentityKey("myopenid", id))
	})
}
