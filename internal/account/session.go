package account

import "sync"

// Session records which user is authenticated, by email. It lives only in
// memory and belongs to one Controller; other packages can only read it.
type Session struct {
	mu      sync.RWMutex
	email   string
	present bool
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Email returns the authenticated email and whether a session is present.
func (s *Session) Email() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email, s.present
}

// Present reports whether a user is authenticated.
func (s *Session) Present() bool {
	_, ok := s.Email()
	return ok
}

func (s *Session) set(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = email
	s.present = true
}

// clearIf ends the session only while it still belongs to email, so a late
// delete response cannot end a session started after it was issued.
func (s *Session) clearIf(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present || s.email != email {
		return false
	}
	s.email = ""
	s.present = false
	return true
}
