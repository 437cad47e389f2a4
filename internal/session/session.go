// Package session holds the signed-in principal for the dashboard layer.
// A Session is created empty, populated by SignIn after the credential has
// been verified, and cleared by SignOut.
package session

import (
	"errors"
	"sync"
)

var (
	// ErrUnauthorized means no principal is signed in
	ErrUnauthorized = errors.New("not authenticated")
	// ErrForbidden means the principal does not hold the required role
	ErrForbidden = errors.New("forbidden: insufficient role")
)

// Principal is the verified identity attached to a request or dashboard
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
	// IDToken is the bearer credential; empty when the principal was resolved server-side
	IDToken string `json:"-"`
}

// Session is safe for concurrent use
type Session struct {
	mu        sync.RWMutex
	principal *Principal
}

func New() *Session {
	return &Session{}
}

// SignIn stores the verified principal, replacing any previous one
func (s *Session) SignIn(p Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principal = &p
}

// SignOut clears the principal
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principal = nil
}

// Current returns the signed-in principal
func (s *Session) Current() (Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return Principal{}, false
	}
	return *s.principal, true
}

// Require returns the principal if signed in with the given role
func (s *Session) Require(role string) (Principal, error) {
	p, ok := s.Current()
	if !ok {
		return Principal{}, ErrUnauthorized
	}
	if p.Role != role {
		return Principal{}, ErrForbidden
	}
	return p, nil
}
