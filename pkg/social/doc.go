// Package social implements an authentication broker that maps external
// identities from third-party providers (OAuth2 services and OpenID
// providers) to local accounts.
//
// The hard part is not the HTTP glue but the identity-resolution and
// account-linking core: given a freshly authenticated external profile, the
// Service deterministically decides which local account it corresponds to,
// provisions one if needed, links identities requested by an
// already-authenticated caller, and persists the mapping with uniqueness
// guarantees.
//
// # Identity keys
//
// Every external account is addressed by a canonical IdentityKey of the form
// "<provider>-<providerNativeID>", with the native identifier sanitized to
// [0-9a-zA-Z_.@-] on both the OAuth2 and the OpenID path. Keys are unique
// per external account and immutable once created.
//
// # Resolution
//
// The resolver checks, strictly in this order:
//
//  1. Direct match: a local account whose id literally equals the key. This
//     is the legacy compatibility path for accounts provisioned before the
//     link store existed; it must never be merged into the link lookup.
//  2. Linked match: an IdentityLink for the key in the LinkStore.
//
// The match state and the caller's session then select the action: log in
// the resolved account, link the key to the current session's account, or
// provision a new account bound to the key. An authenticated caller whose
// key already resolves anywhere fails with ErrAlreadyLinked; an anonymous
// caller with no match fails with ErrRegistrationDisabled when auto-creation
// is administratively off.
//
// # Provider adapters
//
// Both flows sit behind the ProviderAdapter interface. The OAuth2 variant
// runs the authorization-code exchange through golang.org/x/oauth2 against a
// built-in provider catalog; the OpenID variant resolves a configured
// allow-list of titles to issuer URLs and verifies ID tokens with
// github.com/coreos/go-oidc. Adapters persist nothing.
//
// # Concurrency
//
// The core itself performs no locking. Correctness under concurrent logins
// by the same external identity depends on the LinkStore and the account
// directory enforcing uniqueness: the losing writer receives ErrConflict and
// the resolver reruns the lookup-then-decide sequence exactly once.
//
// # Usage
//
//	links := social.NewPostgresLinkStore(pool)
//	states := social.NewRedisStateStore(client)
//	svc := social.NewService(links, states, accounts, sessions, settings, urls,
//		social.WithLogger(log),
//		social.WithGroupDirectory(groups),
//		social.WithAvatarImporter(avatar.NewImporter(store)),
//	)
//
//	url, err := svc.AuthURL(ctx, adapter)       // redirect the caller here
//	result, err := svc.Login(ctx, adapter, code, state)
package social
