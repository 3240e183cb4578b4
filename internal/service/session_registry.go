package service

import (
	"sync"
	"time"

	"github.com/cipherbank/go-cipher-bank/models"
)

// sessionRegistry is the in-memory implementation of SessionRegistry.
// Session keys live only here; nothing in the registry is ever persisted
// or logged.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewSessionRegistry constructs an empty session registry.
func NewSessionRegistry() SessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]models.Session),
	}
}

func (r *sessionRegistry) Create(session models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
}

func (r *sessionRegistry) Get(sessionID string) (models.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok {
		return models.Session{}, ErrSessionNotFound
	}

	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		r.Delete(sessionID)
		return models.Session{}, ErrSessionExpired
	}

	return session, nil
}

func (r *sessionRegistry) Authenticate(sessionID string, accountID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	session.State = models.SessionAuthenticated
	session.AccountID = accountID
	r.sessions[sessionID] = session

	return nil
}

func (r *sessionRegistry) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}
