package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// oauthProviderSpec describes how to talk to one known OAuth2 provider:
// its protocol endpoints, the scopes to request, and which profile response
// fields carry the normalized values.
type oauthProviderSpec struct {
	endpoint   oauth2.Endpoint
	profileURL string
	scopes     []string

	idField    string
	nameField  string
	emailField string
	photoField string
}

// oauthCatalog lists the providers the OAuth2 flow knows how to talk to.
// Credentials still come from the per-request provider tables; an entry here
// without configured credentials stays unusable.
var oauthCatalog = map[string]oauthProviderSpec{
	"google": {
		endpoint:   endpoints.Google,
		profileURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		scopes:     []string{"email", "profile"},
		idField:    "id",
		nameField:  "name",
		emailField: "email",
		photoField: "picture",
	},
	"github": {
		endpoint:   endpoints.GitHub,
		profileURL: "https://api.github.com/user",
		scopes:     []string{"user:email"},
		idField:    "id",
		nameField:  "name",
		emailField: "email",
		photoField: "avatar_url",
	},
	"facebook": {
		endpoint:   endpoints.Facebook,
		profileURL: "https://graph.facebook.com/me?fields=id,name,email",
		scopes:     []string{"email"},
		idField:    "id",
		nameField:  "name",
		emailField: "email",
	},
	"twitter": {
		endpoint:   endpoints.X,
		profileURL: "https://api.twitter.com/2/users/me",
		scopes:     []string{"users.read", "tweet.read"},
		idField:    "id",
		nameField:  "name",
	},
}

type oauth2Adapter struct {
	name       string
	spec       oauthProviderSpec
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewOAuth2Adapter creates an adapter for a cataloged OAuth2 provider using
// the given application credentials and callback address. Returns
// ErrUnknownProvider for names outside the catalog.
func NewOAuth2Adapter(name string, creds OAuthCredentials, callbackURL string) (ProviderAdapter, error) {
	spec, ok := oauthCatalog[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return &oauth2Adapter{
		name: name,
		spec: spec,
		conf: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  callbackURL,
			Scopes:       spec.scopes,
			Endpoint:     spec.endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (a *oauth2Adapter) Name() string { return a.name }

func (a *oauth2Adapter) AuthURL(ctx context.Context, state string) (string, error) {
	return a.conf.AuthCodeURL(state), nil
}

// Authenticate exchanges the authorization code and fetches the profile
// endpoint. Failures surface the provider's message wrapped in ErrProvider.
func (a *oauth2Adapter) Authenticate(ctx context.Context, code string) (Profile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	claims, err := a.fetchProfile(ctx, tok.AccessToken)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	profile := Profile{
		Identifier:  claimString(claims, a.spec.idField),
		DisplayName: claimString(claims, a.spec.nameField),
		Email:       claimString(claims, a.spec.emailField),
		PhotoURL:    claimString(claims, a.spec.photoField),
	}
	if profile.Identifier == "" {
		return Profile{}, fmt.Errorf("%w: profile response missing %q", ErrProvider, a.spec.idField)
	}
	return profile, nil
}

func (a *oauth2Adapter) fetchProfile(ctx context.Context, accessToken string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.spec.profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile endpoint returned status %d", resp.StatusCode)
	}

	var claims map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, err
	}
	// Twitter v2 wraps the user object in a "data" envelope.
	if data, ok := claims["data"].(map[string]any); ok {
		claims = data
	}
	return claims, nil
}

// claimString extracts a claim as a string, converting numeric IDs (GitHub)
// to their decimal form.
func claimString(claims map[string]any, field string) string {
	if field == "" {
		return ""
	}
	switch v := claims[field].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Compile-time interface assertion
var _ ProviderAdapter = (*oauth2Adapter)(nil)
