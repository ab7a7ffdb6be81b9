package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-clients-dashboard/actions"
	"github.com/jrsteele09/go-clients-dashboard/authorization"
	"github.com/jrsteele09/go-clients-dashboard/importer"
	"github.com/jrsteele09/go-clients-dashboard/internal/config"
	apperrors "github.com/jrsteele09/go-clients-dashboard/internal/errors"
	"github.com/jrsteele09/go-clients-dashboard/search"
	"github.com/jrsteele09/go-clients-dashboard/server"
	"github.com/jrsteele09/go-clients-dashboard/server/authflowrepo"
	"github.com/jrsteele09/go-clients-dashboard/sessions"
	"github.com/stretchr/testify/require"
)

const testHost = "dash.example.com"

type fakeAuthorizer struct{}

func (fakeAuthorizer) AuthorizationURL() string {
	return "https://accounts.example.com/auth?access_type=offline"
}

func (fakeAuthorizer) AuthorizationURLWithState(state string) string {
	return "https://accounts.example.com/auth?access_type=offline&state=" + url.QueryEscape(state)
}

func (fakeAuthorizer) ExchangeCode(ctx context.Context, code string) (authorization.Credential, error) {
	if code == "bad" {
		return authorization.Credential{}, apperrors.Kind(apperrors.ErrAuthExchange, errors.New("invalid_grant"))
	}
	return authorization.Credential{AccessToken: "at-" + code, TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}, nil
}

type fakeProfiles struct{}

func (fakeProfiles) Fetch(ctx context.Context, cred authorization.Credential) (authorization.Profile, error) {
	return authorization.Profile{Subject: "1", Name: "Alice", Email: "alice@example.com"}, nil
}

// recordingSource remembers which token fetched which spreadsheet
type recordingSource struct {
	mu   *sync.Mutex
	seen map[string]string
	cred authorization.Credential
}

func (s recordingSource) Rows(ctx context.Context, ref importer.SheetRef) ([][]any, error) {
	s.mu.Lock()
	s.seen[ref.SpreadsheetID] = s.cred.AccessToken
	s.mu.Unlock()
	return [][]any{{"Alice", "a@x.com"}}, nil
}

type fakeSearcher struct{}

func (fakeSearcher) Search(ctx context.Context, query string) (search.Response, error) {
	return search.Response{Results: "results for " + query}, nil
}

type fixture struct {
	server   *server.Server
	sessions *sessions.InMemoryRepo
	markers  *sessions.MarkerIssuer
	mu       sync.Mutex
	seen     map[string]string
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{seen: map[string]string{}}

	imp := importer.New(func(ctx context.Context, cred authorization.Credential) (importer.RowSource, error) {
		return recordingSource{mu: &f.mu, seen: f.seen, cred: cred}, nil
	}, "", time.Second)

	facade, err := actions.New(fakeAuthorizer{}, imp, fakeSearcher{})
	require.NoError(t, err)

	f.sessions = sessions.NewInMemoryRepo()
	f.markers, err = sessions.NewMarkerIssuer([]byte("test-secret"))
	require.NoError(t, err)

	f.server, err = server.New(config.New(), server.Components{
		Actions:    facade,
		Authorizer: fakeAuthorizer{},
		Profiles:   fakeProfiles{},
		Sessions:   f.sessions,
		Markers:    f.markers,
		AuthState:  authflowrepo.NewInMemoryRepo(),
	})
	require.NoError(t, err)
	return f
}

// signIn creates a session owning cred and returns its marker cookie
func (f *fixture) signIn(t *testing.T, id string, cred authorization.Credential) *http.Cookie {
	t.Helper()
	expires := time.Now().Add(time.Hour)
	require.NoError(t, f.sessions.Upsert(sessions.Session{ID: id, Credential: cred, ExpiresAt: expires}))
	marker, err := f.markers.Issue(id, expires)
	require.NoError(t, err)
	return &http.Cookie{Name: "session", Value: marker}
}

func (f *fixture) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Host = testHost
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	return nil
}

func TestNewRequiresComponents(t *testing.T) {
	_, err := server.New(config.New(), server.Components{})
	require.Error(t, err)
}

func TestSessionGate(t *testing.T) {
	f := setupFixture(t)
	cookie := f.signIn(t, "s-1", authorization.Credential{AccessToken: "at-1"})

	t.Run("login with session redirects home", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/login", "", cookie)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "http://"+testHost+"/", rec.Header().Get("Location"))
	})

	t.Run("dashboard without session redirects to login", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/dashboard", "")
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "http://"+testHost+"/login", rec.Header().Get("Location"))
	})

	t.Run("api paths pass through either way", func(t *testing.T) {
		require.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/x", "").Code)
		require.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/x", "", cookie).Code)
	})

	t.Run("dashboard with session renders", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/dashboard", "", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	})

	t.Run("login without session renders", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/login?error=Nope", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Nope")
		require.Contains(t, rec.Body.String(), "/auth/google")
	})

	t.Run("forged marker is unauthenticated", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/dashboard", "", &http.Cookie{Name: "session", Value: "forged"})
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	})

	t.Run("marker for deleted session is unauthenticated", func(t *testing.T) {
		stale := f.signIn(t, "s-stale", authorization.Credential{AccessToken: "at-2"})
		require.NoError(t, f.sessions.Delete("s-stale"))
		rec := f.do(http.MethodGet, "/dashboard", "", stale)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	})

	t.Run("health is excluded", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/healthz", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ok", rec.Body.String())
	})
}

func TestSignInFlow(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(http.MethodGet, "/auth/google?return=/dashboard", "")
	require.Equal(t, http.StatusFound, rec.Code)
	consent, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := consent.Query().Get("state")
	require.NotEmpty(t, state)

	rec = f.do(http.MethodGet, "/auth/callback?code=abc&state="+url.QueryEscape(state), "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "http://"+testHost+"/dashboard", rec.Header().Get("Location"))
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)

	t.Run("state is one-shot", func(t *testing.T) {
		again := f.do(http.MethodGet, "/auth/callback?code=abc&state="+url.QueryEscape(state), "")
		require.Equal(t, http.StatusSeeOther, again.Code)
		require.Contains(t, again.Header().Get("Location"), "/login?error=")
	})

	rec = f.do(http.MethodGet, "/dashboard", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Alice")

	rec = f.do(http.MethodPost, "/api/clients/import", `{"sheetUrl":"https://sheets.example/abc"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"importedCount":1}`, rec.Body.String())
	require.Equal(t, "at-abc", f.seen["abc"])

	rec = f.do(http.MethodGet, "/auth/logout", "", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "http://"+testHost+"/login", rec.Header().Get("Location"))
	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	require.Equal(t, -1, cleared.MaxAge)

	rec = f.do(http.MethodGet, "/dashboard", "", cookie)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
}

func TestCallbackFailures(t *testing.T) {
	f := setupFixture(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"provider error", "error=access_denied", "Authorization was denied."},
		{"unknown state", "code=abc&state=forged", "Invalid sign in attempt."},
		{"missing code", "", "Invalid input."},
		{"rejected code", "code=bad", "Failed to authorize with Google."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, "/auth/callback?"+tt.query, "")
			require.Equal(t, http.StatusSeeOther, rec.Code)
			loc, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			require.Equal(t, "/login", loc.Path)
			require.Equal(t, tt.want, loc.Query().Get("error"))
			require.Nil(t, sessionCookie(rec))
		})
	}
}

func TestStatelessCallbackGoesHome(t *testing.T) {
	f := setupFixture(t)
	rec := f.do(http.MethodGet, "/auth/callback?code=xyz", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "http://"+testHost+"/", rec.Header().Get("Location"))
	require.NotNil(t, sessionCookie(rec))
}

func TestActionEndpoints(t *testing.T) {
	f := setupFixture(t)

	t.Run("authorization url", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/api/auth/url", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"url":"https://accounts.example.com/auth?access_type=offline"}`, rec.Body.String())
	})

	t.Run("search", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/search", `{"query":"find leads in Texas"}`)
		require.JSONEq(t, `{"success":true,"results":"results for find leads in Texas"}`, rec.Body.String())
		require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	})

	t.Run("search with malformed body", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/search", `{"query":`)
		require.JSONEq(t, `{"success":false,"error":"Invalid input."}`, rec.Body.String())
	})

	t.Run("import without session", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/clients/import", `{"sheetUrl":"https://sheets.example/abc"}`)
		require.JSONEq(t, `{"success":false,"error":"Not authorized."}`, rec.Body.String())
	})

	t.Run("import with invalid url", func(t *testing.T) {
		cookie := f.signIn(t, "s-url", authorization.Credential{AccessToken: "at-url"})
		rec := f.do(http.MethodPost, "/api/clients/import", `{"sheetUrl":"nope"}`, cookie)
		require.JSONEq(t, `{"success":false,"error":"Invalid input."}`, rec.Body.String())
	})
}

func TestConcurrentImportsDoNotShareCredentials(t *testing.T) {
	f := setupFixture(t)

	const n = 8
	cookies := make([]*http.Cookie, n)
	for i := 0; i < n; i++ {
		cookies[i] = f.signIn(t, fmt.Sprintf("s-%d", i), authorization.Credential{AccessToken: fmt.Sprintf("tok-%d", i)})
	}

	var wg sync.WaitGroup
	bodies := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"sheetUrl":"https://sheets.example/sheet-%d"}`, i)
			bodies[i] = f.do(http.MethodPost, "/api/clients/import", body, cookies[i]).Body.String()
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		var resp actions.ImportResponse
		require.NoError(t, json.Unmarshal([]byte(bodies[i]), &resp))
		require.True(t, resp.Success)
		require.Equal(t, fmt.Sprintf("tok-%d", i), f.seen[fmt.Sprintf("sheet-%d", i)])
	}
}

func TestCorsPreflight(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://ui.example.com")
	f := setupFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "https://ui.example.com")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://ui.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
