package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-clients-dashboard/actions"
	"github.com/jrsteele09/go-clients-dashboard/authorization"
	"github.com/jrsteele09/go-clients-dashboard/gate"
	"github.com/jrsteele09/go-clients-dashboard/internal/config"
	"github.com/jrsteele09/go-clients-dashboard/server/authflowrepo"
	"github.com/jrsteele09/go-clients-dashboard/sessions"
	"github.com/rs/zerolog/log"
)

// StateAuthorizer builds consent URLs that carry a CSRF state
type StateAuthorizer interface {
	AuthorizationURLWithState(state string) string
}

// ProfileFetcher identifies the user behind a credential
type ProfileFetcher interface {
	Fetch(ctx context.Context, cred authorization.Credential) (authorization.Profile, error)
}

// Components are the collaborators the HTTP layer delegates to
type Components struct {
	Actions    *actions.Facade
	Authorizer StateAuthorizer
	// Profiles is optional; sessions carry an empty profile without it
	Profiles  ProfileFetcher
	Sessions  sessions.Repo
	Markers   *sessions.MarkerIssuer
	AuthState authflowrepo.Repo
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	handler   http.Handler
	routes    []string
	config    config.Config
	gate      gate.Rules
	actions   *actions.Facade
	auth      StateAuthorizer
	profiles  ProfileFetcher
	sessions  sessions.Repo
	markers   *sessions.MarkerIssuer
	authState authflowrepo.Repo
}

func New(config config.Config, c Components) (*Server, error) {
	if c.Actions == nil || c.Authorizer == nil || c.Sessions == nil || c.Markers == nil || c.AuthState == nil {
		return nil, errors.New("[Server New] actions, authorizer, sessions, markers and auth state are required")
	}

	s := &Server{
		env:       config.GetEnv(),
		mux:       http.NewServeMux(),
		config:    config,
		gate:      gate.DefaultRules(),
		actions:   c.Actions,
		auth:      c.Authorizer,
		profiles:  c.Profiles,
		sessions:  c.Sessions,
		markers:   c.Markers,
		authState: c.AuthState,
	}
	s.gate.LoginPath = RouteLogin
	s.gate.HomePath = RouteHome

	s.initRoutes()
	s.logRoutes()

	// The gate sees every request before the mux does
	s.handler = s.SessionGateMiddleware(s.mux)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			log.Debug().Str("path", parts[0]).Msg("route")
		}
	}
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

// absoluteURL resolves path against the request's own origin
func absoluteURL(r *http.Request, path string) string {
	return fmt.Sprintf("%s://%s%s", getScheme(r), r.Host, path)
}
