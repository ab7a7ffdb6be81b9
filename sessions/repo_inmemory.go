package sessions

import (
	"errors"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-clients-dashboard/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory session store
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Upsert creates or replaces a session
func (r *InMemoryRepo) Upsert(session Session) error {
	if session.ID == "" {
		return errors.New("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

// Get returns a live session, evicting it if it has expired
func (r *InMemoryRepo) Get(sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, errors.New("sessionID is required")
	}

	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return Session{}, apperrors.ErrSessionNotFound
	}

	if session.Expired(r.now()) {
		_ = r.Delete(sessionID)
		return Session{}, apperrors.ErrSessionExpired
	}
	return session, nil
}

// Delete removes a session; unknown ids are not an error
func (r *InMemoryRepo) Delete(sessionID string) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
