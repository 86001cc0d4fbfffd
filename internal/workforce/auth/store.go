package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned for sessions that were never created,
// were revoked, or expired.
var ErrSessionNotFound = errors.New("session not found")

// Session is the token registry entry of one login. TokenID is the id of
// the only token currently accepted for the session.
type Session struct {
	ID        string
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

// SessionStore keeps the sessions of authenticated users.
//
// Rotate must only succeed while the session still exists, atomically with
// respect to Revoke. A logout therefore always wins over a concurrent
// refresh: either the refresh finds the session gone, or the session it
// rotated is deleted afterwards.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Rotate(ctx context.Context, id, tokenID string, expiresAt time.Time) error
	Revoke(ctx context.Context, id string) error
}

// MemorySessionStore is a process-local SessionStore. Expired sessions are
// dropped when read or by Sweep; StartSweeper runs Sweep periodically so
// abandoned logins do not accumulate.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Create(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.live(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) Rotate(_ context.Context, id, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.live(id)
	if !ok {
		return ErrSessionNotFound
	}
	session.TokenID = tokenID
	session.ExpiresAt = expiresAt
	s.sessions[id] = session
	return nil
}

func (s *MemorySessionStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Sweep drops every expired session and returns how many were dropped.
func (s *MemorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for id, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// StartSweeper runs Sweep every interval until the returned stop function
// is called.
func (s *MemorySessionStore) StartSweeper(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// live returns the session if present and unexpired, dropping it otherwise.
// Callers hold mu.
func (s *MemorySessionStore) live(id string) (Session, bool) {
	session, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, id)
		return Session{}, false
	}
	return session, true
}

var _ SessionStore = (*MemorySessionStore)(nil)
