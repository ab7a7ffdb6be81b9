package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-clients-dashboard/authorization"
	"github.com/jrsteele09/go-clients-dashboard/server/authflowrepo"
	"github.com/jrsteele09/go-clients-dashboard/sessions"
	"github.com/rs/zerolog/log"
)

// StartAuthorizationHandler remembers a fresh state and sends the browser to the consent screen
func (s *Server) StartAuthorizationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.NewString()
		err := s.authState.Upsert(state, &authflowrepo.AuthFlowState{
			ReturnURL: localPath(r.URL.Query().Get("return")),
			CreatedAt: time.Now(),
		})
		if err != nil {
			log.Err(err).Msg("Failed to store auth flow state")
			redirectWithError(w, r, RouteLogin, "Unable to start sign in.")
			return
		}
		http.Redirect(w, r, s.auth.AuthorizationURLWithState(state), http.StatusFound)
	}
}

// OAuthCallbackHandler completes the code exchange and opens a session owning the credential
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if errorParam := r.FormValue("error"); errorParam != "" {
			log.Warn().Str("error", errorParam).Str("error_description", r.FormValue("error_description")).Msg("Authorization denied")
			redirectWithError(w, r, RouteLogin, "Authorization was denied.")
			return
		}

		returnURL, ok := s.consumeState(r.FormValue("state"))
		if !ok {
			redirectWithError(w, r, RouteLogin, "Invalid sign in attempt.")
			return
		}

		resp := s.actions.CompleteAuthorization(r.Context(), map[string]any{"code": r.FormValue("code")})
		if !resp.Success {
			redirectWithError(w, r, RouteLogin, resp.Error)
			return
		}

		session, err := s.openSession(r, resp.Credential)
		if err != nil {
			log.Err(err).Msg("Failed to create session")
			redirectWithError(w, r, RouteLogin, "Unable to sign in.")
			return
		}

		marker, err := s.markers.Issue(session.ID, session.ExpiresAt)
		if err != nil {
			log.Err(err).Msg("Failed to issue session marker")
			_ = s.sessions.Delete(session.ID)
			redirectWithError(w, r, RouteLogin, "Unable to sign in.")
			return
		}
		s.SetSessionCookie(w, r, marker, session.ExpiresAt)
		redirectSuccess(w, r, returnURL)
	}
}

// consumeState validates a one-shot state. A callback without state comes
// from the stateless consent URL and returns home.
func (s *Server) consumeState(state string) (string, bool) {
	if state == "" {
		return RouteHome, true
	}

	authState, err := s.authState.Get(state)
	if err != nil || authState == nil {
		return "", false
	}
	_ = s.authState.Delete(state)

	if time.Since(authState.CreatedAt) > s.config.GetAuthFlowTimeout() {
		return "", false
	}
	return localPath(authState.ReturnURL), true
}

func (s *Server) openSession(r *http.Request, cred authorization.Credential) (sessions.Session, error) {
	var profile authorization.Profile
	if s.profiles != nil {
		p, err := s.profiles.Fetch(r.Context(), cred)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to fetch user profile")
		} else {
			profile = p
		}
	}

	now := time.Now()
	session := sessions.Session{
		ID:         uuid.NewString(),
		Profile:    profile,
		Credential: cred,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.config.GetMaxSessionAge()),
	}
	if err := s.sessions.Upsert(session); err != nil {
		return sessions.Session{}, err
	}
	return session, nil
}

// LogoutHandler drops the session and its credential
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, ok := s.currentSession(r); ok {
			if err := s.sessions.Delete(session.ID); err != nil {
				log.Err(err).Str("session_id", session.ID).Msg("Failed to delete session")
			}
		}
		s.ClearSessionCookie(w, r)
		redirectSuccess(w, r, RouteLogin)
	}
}
