// Package gate decides, before any handler runs, whether a request may reach
// the dashboard or must be redirected to sign in.
package gate

import "strings"

// Decision is the outcome of classifying a request
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Access is the two-state route classification
type Access int

const (
	Protected Access = iota
	Public
)

// Rules holds the path lists the gate consults
type Rules struct {
	LoginPath string
	HomePath  string
	// PublicPaths are reachable without a session; signed in users are sent home
	PublicPaths []string
	// ExcludedPrefixes are never evaluated (API, static assets, internals)
	ExcludedPrefixes []string
}

// DefaultRules mirrors the dashboard's route table
func DefaultRules() Rules {
	return Rules{
		LoginPath:        "/login",
		HomePath:         "/",
		PublicPaths:      []string{"/login"},
		ExcludedPrefixes: []string{"/api/", "/auth/", "/static/", "/_internal/", "/favicon.ico", "/healthz"},
	}
}

// Excluded reports whether path bypasses the gate entirely
func (r Rules) Excluded(path string) bool {
	for _, prefix := range r.ExcludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Access classifies a non-excluded path
func (r Rules) Access(path string) Access {
	for _, p := range r.PublicPaths {
		if path == p {
			return Public
		}
	}
	return Protected
}

// Classify is a pure function of the path and whether a valid session marker was presented
func (r Rules) Classify(path string, authenticated bool) Decision {
	if r.Excluded(path) {
		return Allow
	}
	switch r.Access(path) {
	case Public:
		if authenticated {
			return RedirectHome
		}
	case Protected:
		if !authenticated {
			return RedirectLogin
		}
	}
	return Allow
}

// Target returns the redirect path for d, or "" for Allow
func (r Rules) Target(d Decision) string {
	switch d {
	case RedirectLogin:
		return r.LoginPath
	case RedirectHome:
		return r.HomePath
	default:
		return ""
	}
}
