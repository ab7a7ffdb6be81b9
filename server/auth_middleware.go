package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-clients-dashboard/gate"
	"github.com/jrsteele09/go-clients-dashboard/sessions"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the signed in session
const ContextKeySession ContextKey = "session"

// SessionGateMiddleware redirects requests the gate does not allow through.
// Excluded paths are passed on without looking at the cookie.
func (s *Server) SessionGateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.gate.Excluded(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		session, authenticated := s.currentSession(r)
		decision := s.gate.Classify(r.URL.Path, authenticated)
		if decision != gate.Allow {
			http.Redirect(w, r, absoluteURL(r, s.gate.Target(decision)), http.StatusTemporaryRedirect)
			return
		}

		if authenticated {
			r = r.WithContext(context.WithValue(r.Context(), ContextKeySession, session))
		}
		next.ServeHTTP(w, r)
	})
}

// currentSession resolves the marker cookie to a live session
func (s *Server) currentSession(r *http.Request) (sessions.Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return sessions.Session{}, false
	}

	sessionID, err := s.markers.Verify(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("rejected session marker")
		return sessions.Session{}, false
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		log.Debug().Err(err).Str("session_id", sessionID).Msg("session lookup failed")
		return sessions.Session{}, false
	}
	return session, true
}

// SessionFromContext returns the session the gate attached to the request
func SessionFromContext(ctx context.Context) (sessions.Session, bool) {
	session, ok := ctx.Value(ContextKeySession).(sessions.Session)
	return session, ok
}
