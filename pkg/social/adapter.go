package social

import "context"

// ProviderAdapter abstracts provider-specific handshake behavior behind a
// minimal interface. Implementations encapsulate all protocol details (token
// exchange, profile endpoints, ID token verification) and expose only what
// the resolver needs. Adapters persist nothing; they are pure protocol
// executors parameterized by externally supplied configuration.
type ProviderAdapter interface {
	// Name returns the stable provider name used to compose identity keys,
	// e.g. "google", "myopenid".
	Name() string

	// AuthURL builds the provider authorization URL for the given state
	// token.
	AuthURL(ctx context.Context, state string) (string, error)

	// Authenticate completes the handshake for an authorization code and
	// returns the normalized profile. Any transport, credential, or
	// provider-side failure is reported as an error wrapping ErrProvider
	// with the concrete message preserved.
	Authenticate(ctx context.Context, code string) (Profile, error)
}
