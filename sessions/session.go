package sessions

import (
	"time"

	"github.com/jrsteele09/go-clients-dashboard/authorization"
)

// Session is what a signed in browser carries behind its marker cookie.
// Each session owns the credential obtained by its own code exchange.
type Session struct {
	ID         string
	Profile    authorization.Profile
	Credential authorization.Credential
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the session is past its expiry at now
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Repo interface {
	Upsert(session Session) error
	Get(sessionID string) (Session, error)
	Delete(sessionID string) error
}
