// Package session keeps the server-side session registry. A session is
// created at login, touched on every authenticated request and dropped on
// logout or after the idle timeout, so a leaked token alone cannot outlive
// the session it was issued for.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const IdleTimeout = 30 * time.Minute

type Session struct {
	ID           string
	UserID       int
	Username     string
	Role         string
	LastActivity time.Time
}

type Store struct {
	mu       sync.Mutex
	timeout  time.Duration
	sessions map[string]*Session
	now      func() time.Time
}

func NewStore(timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = IdleTimeout
	}
	return &Store{
		timeout:  timeout,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (s *Store) Create(userID int, username, role string) *Session {
	sess := &Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		Username:     username,
		Role:         role,
		LastActivity: s.now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Touch resolves a session and refreshes its activity timestamp. An idle
// session is removed and reported as absent.
func (s *Store) Touch(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(sess.LastActivity) > s.timeout {
		delete(s.sessions, id)
		return nil, false
	}
	sess.LastActivity = now
	return sess, true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep drops every idle session. Run periodically from the app.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > s.timeout {
			delete(s.sessions, id)
		}
	}
}
