// Package auth implements the two authorization mechanisms of the service:
// the admin session store (opaque bearer tokens held in process memory) and
// the admin password digest check.  Booking holders are not represented
// here at all — possession of a slot's secret code is their entire
// credential and is checked by the storage layer.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// SessionStore holds the set of valid admin session tokens, mapped to the
// time they were issued.  It is constructed once in main and passed to
// every handler that needs an authorization decision; there is no global
// state.  Tokens live for the life of the process: they are never
// persisted, so a restart invalidates every admin session.
type SessionStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

// NewSessionStore returns an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{tokens: make(map[string]time.Time)}
}

// Issue mints a new random opaque token, registers it and returns it.
func (s *SessionStore) Issue() (string, error) {
	token, err := newToken(24)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.tokens[token] = time.Now().UTC()
	s.mu.Unlock()
	return token, nil
}

// Valid reports whether the token is a current member of the session set.
func (s *SessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.RLock()
	_, ok := s.tokens[token]
	s.mu.RUnlock()
	return ok
}

// Revoke removes a token from the session set.  Revoking an unknown token
// is a no-op.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Len returns the number of active sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

// newToken returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.  24 bytes yield a 48 character
// token, which is plenty for an unguessable bearer credential.
func newToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
