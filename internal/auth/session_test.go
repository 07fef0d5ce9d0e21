package auth

import (
	"sync"
	"testing"
)

func TestIssueAndValid(t *testing.T) {
	s := NewSessionStore()

	token, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(token) != 48 {
		t.Fatalf("token length = %d, want 48 hex chars", len(token))
	}
	if !s.Valid(token) {
		t.Fatalf("freshly issued token not valid")
	}
	if s.Valid("") {
		t.Fatalf("empty token must never be valid")
	}
	if s.Valid("deadbeef") {
		t.Fatalf("unknown token reported valid")
	}
}

func TestTokensAreUnique(t *testing.T) {
	s := NewSessionStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := s.Issue()
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token issued: %s", token)
		}
		seen[token] = true
	}
	if s.Len() != 100 {
		t.Fatalf("Len = %d, want 100", s.Len())
	}
}

func TestRevoke(t *testing.T) {
	s := NewSessionStore()
	token, _ := s.Issue()

	s.Revoke(token)
	if s.Valid(token) {
		t.Fatalf("revoked token still valid")
	}
	// Revoking again must be a no-op.
	s.Revoke(token)
	if s.Len() != 0 {
		t.Fatalf("Len = %d after revoking the only token", s.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewSessionStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := s.Issue()
			if err != nil {
				t.Errorf("Issue: %v", err)
				return
			}
			if !s.Valid(token) {
				t.Errorf("token invalid right after issue")
			}
			s.Revoke(token)
			if s.Valid(token) {
				t.Errorf("token valid after revoke")
			}
		}()
	}
	wg.Wait()
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0 after all sessions revoked", s.Len())
	}
}
