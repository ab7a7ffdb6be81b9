package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jrsteele09/go-clients-dashboard/actions"
	"github.com/jrsteele09/go-clients-dashboard/authorization"
	"github.com/rs/zerolog/log"
)

const maxActionBodyBytes = 64 << 10

// AuthorizationURLHandler returns {url} for the consent screen
func (s *Server) AuthorizationURLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, actions.AuthorizationURLResponse{URL: s.actions.GetAuthorizationURL()})
	}
}

func (s *Server) SmartSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.actions.SmartSearch(r.Context(), readInput(r)))
	}
}

// ImportClientsHandler imports with the credential owned by the caller's session
func (s *Server) ImportClientsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cred authorization.Credential
		if session, ok := s.currentSession(r); ok {
			cred = session.Credential
		}
		writeJSON(w, s.actions.ImportClients(r.Context(), cred, readInput(r)))
	}
}

// readInput decodes the JSON body; an unreadable body becomes nil and fails shape validation
func readInput(r *http.Request) any {
	input, err := actions.DecodeInput(io.LimitReader(r.Body, maxActionBodyBytes))
	if err != nil {
		return nil
	}
	return input
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to write JSON response")
	}
}
