package authorization

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jrsteele09/go-clients-dashboard/internal/config"
	apperrors "github.com/jrsteele09/go-clients-dashboard/internal/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const (
	ScopeUserInfoProfile = "https://www.googleapis.com/auth/userinfo.profile"
	ScopeUserInfoEmail   = "https://www.googleapis.com/auth/userinfo.email"
)

// Scopes requested on the consent screen: read-only spreadsheets plus basic profile
var Scopes = []string{
	sheets.SpreadsheetsReadonlyScope,
	ScopeUserInfoProfile,
	ScopeUserInfoEmail,
}

const defaultExchangeTimeout = 10 * time.Second

// Settings is the immutable OAuth client configuration
type Settings struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	Endpoint        oauth2.Endpoint
	ExchangeTimeout time.Duration
}

// Manager builds consent URLs, exchanges codes and hands out clients bound to a
// caller supplied credential. It holds no token state.
type Manager struct {
	settings Settings
}

func NewManager(settings Settings) (*Manager, error) {
	if settings.ClientID == "" {
		return nil, errors.New("[authorization NewManager] client id is required")
	}
	if settings.RedirectURL == "" {
		return nil, errors.New("[authorization NewManager] redirect url is required")
	}
	if settings.Endpoint.AuthURL == "" || settings.Endpoint.TokenURL == "" {
		return nil, errors.New("[authorization NewManager] oauth endpoint is required")
	}
	if settings.ExchangeTimeout <= 0 {
		settings.ExchangeTimeout = defaultExchangeTimeout
	}
	return &Manager{settings: settings}, nil
}

// NewGoogleManager configures a manager against Google's OAuth endpoints
func NewGoogleManager(c config.GoogleConfig) (*Manager, error) {
	return NewManager(Settings{
		ClientID:        c.GetGoogleClientID(),
		ClientSecret:    c.GetGoogleClientSecret(),
		RedirectURL:     c.GetGoogleRedirectURL(),
		Endpoint:        google.Endpoint,
		ExchangeTimeout: c.GetTokenExchangeTimeout(),
	})
}

// oauthConfig returns a new config value on every call so no two requests share one
func (m *Manager) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     m.settings.ClientID,
		ClientSecret: m.settings.ClientSecret,
		RedirectURL:  m.settings.RedirectURL,
		Endpoint:     m.settings.Endpoint,
		Scopes:       append([]string(nil), Scopes...),
	}
}

// AuthorizationURL returns the consent URL without a state parameter
func (m *Manager) AuthorizationURL() string {
	return m.AuthorizationURLWithState("")
}

// AuthorizationURLWithState returns the consent URL carrying a CSRF state
func (m *Manager) AuthorizationURLWithState(state string) string {
	return m.oauthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode trades a one-time authorization code for a credential
func (m *Manager) ExchangeCode(ctx context.Context, code string) (Credential, error) {
	if code == "" {
		return Credential{}, apperrors.Kind(apperrors.ErrAuthExchange, errors.New("empty code"))
	}

	ctx, cancel := context.WithTimeout(ctx, m.settings.ExchangeTimeout)
	defer cancel()

	token, err := m.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return Credential{}, apperrors.Kind(apperrors.ErrAuthExchange, err)
	}
	if token.AccessToken == "" {
		return Credential{}, apperrors.Kind(apperrors.ErrAuthExchange, errors.New("no access token in response"))
	}
	return credentialFromToken(token), nil
}

// Client returns a new HTTP client that authorizes requests with cred.
// ctx is used for token refreshes and must outlive the client's use.
func (m *Manager) Client(ctx context.Context, cred Credential) *http.Client {
	return m.oauthConfig().Client(ctx, cred.Token())
}
