package sociallogin

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socialconnect/broker/pkg/logger"
	"github.com/socialconnect/broker/pkg/social"
)

// Router returns the broker's contracted routes, ready to mount:
//
//	r := chi.NewRouter()
//	r.Mount("/apps/sociallogin", module.Router())
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/oauth/{provider}", m.handleOAuth)
	r.Get("/openid/{provider}", m.handleOpenID)
	r.Post("/openid/{provider}", m.handleOpenID)
	r.Get("/disconnect-social/{login}", m.handleDisconnect)
	return r
}

// Handle returns the module as a plain http.Handler.
func (m *Module) Handle() http.Handler {
	return m.Router()
}

func (m *Module) handleOAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")

	tables, err := social.LoadProviderTables(ctx, m.settings, m.overrides)
	if err != nil {
		m.renderError(w, r, provider, err)
		return
	}
	creds, ok := tables.OAuth[provider]
	if !ok {
		m.renderError(w, r, provider, fmt.Errorf("%w: %q", social.ErrUnknownProvider, provider))
		return
	}

	adapter, err := m.newOAuth(provider, creds, m.urls.CallbackURL("oauth", provider))
	if err != nil {
		m.renderError(w, r, provider, err)
		return
	}

	m.run(w, r, provider, adapter)
}

func (m *Module) handleOpenID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")

	tables, err := social.LoadProviderTables(ctx, m.settings, m.overrides)
	if err != nil {
		m.renderError(w, r, provider, err)
		return
	}
	// Allow-list check happens here, before the adapter constructor runs
	// issuer discovery over the network.
	issuerURL, err := tables.OpenIDURL(provider)
	if err != nil {
		m.renderError(w, r, provider, err)
		return
	}

	adapter, err := m.newOpenID(ctx, provider, issuerURL, tables.OAuth[provider], m.urls.CallbackURL("openid", provider))
	if err != nil {
		m.renderError(w, r, provider, err)
		return
	}

	m.run(w, r, provider, adapter)
}

// run dispatches a callback request: without a code it initiates the
// handshake, with one it completes the login.
func (m *Module) run(w http.ResponseWriter, r *http.Request, provider string, adapter social.ProviderAdapter) {
	ctx := r.Context()
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		msg := query.Get("error_description")
		if msg == "" {
			msg = errParam
		}
		m.renderError(w, r, provider, fmt.Errorf("%w: %s", social.ErrProvider, msg))
		return
	}

	code := query.Get("code")
	if code == "" {
		authURL, err := m.svc.AuthURL(ctx, adapter)
		if err != nil {
			m.renderError(w, r, provider, err)
			return
		}
		http.Redirect(w, r, authURL, http.StatusFound)
		return
	}

	result, err := m.svc.Login(ctx, adapter, code, query.Get("state"))
	if err != nil {
		m.renderError(w, r, provider, err)
		return
	}

	m.logger.Info("social login completed",
		logger.Component("sociallogin"),
		logger.Provider(provider),
		logger.AccountID(result.AccountID),
	)
	http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
}

func (m *Module) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := social.IdentityKey(chi.URLParam(r, "login"))

	session := m.sessions.State(ctx)
	if !session.Authenticated {
		m.renderError(w, r, "", errors.New("unauthorized"))
		return
	}

	if err := m.svc.Disconnect(ctx, key, session.AccountID); err != nil {
		m.renderError(w, r, "", err)
		return
	}
	http.Redirect(w, r, m.urls.SettingsURL(), http.StatusSeeOther)
}

// renderError writes the user-visible authentication failure page carrying
// the error's message.
func (m *Module) renderError(w http.ResponseWriter, r *http.Request, provider string, err error) {
	status := http.StatusUnauthorized
	switch {
	case errors.Is(err, social.ErrUnknownProvider), errors.Is(err, social.ErrLinkNotFound):
		status = http.StatusNotFound
	case errors.Is(err, social.ErrNotLinkOwner):
		status = http.StatusForbidden
	case errors.Is(err, social.ErrInvalidState):
		status = http.StatusBadRequest
	case errors.Is(err, social.ErrLoginFailed):
		status = http.StatusInternalServerError
	}

	m.logger.Warn("social login failed",
		logger.Component("sociallogin"),
		logger.Provider(provider),
		logger.Error(err),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, errorPage, html.EscapeString(err.Error()))
}

const errorPage = `<!DOCTYPE html>
<html>
<head><title>Authentication failed</title></head>
<body>
<h1>Authentication failed</h1>
<p>%s</p>
</body>
</html>
`
