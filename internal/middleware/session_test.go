package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/oreshkin/slotbook/internal/auth"
)

func runGate(t *testing.T, sessions *auth.SessionStore, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/slots", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	next := func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}
	if err := AdminAuth(sessions)(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, reached
}

func TestAdminAuthMissingHeader(t *testing.T) {
	rec, reached := runGate(t, auth.NewSessionStore(), "")
	if reached {
		t.Fatalf("handler reached without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminAuthUnknownToken(t *testing.T) {
	rec, reached := runGate(t, auth.NewSessionStore(), "Bearer 0123456789abcdef")
	if reached {
		t.Fatalf("handler reached with an unknown token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminAuthMalformedHeader(t *testing.T) {
	sessions := auth.NewSessionStore()
	token, _ := sessions.Issue()

	// A valid token without the Bearer prefix must not pass.
	rec, reached := runGate(t, sessions, token)
	if reached || rec.Code != http.StatusUnauthorized {
		t.Fatalf("non-bearer header admitted (status %d)", rec.Code)
	}
}

func TestAdminAuthValidToken(t *testing.T) {
	sessions := auth.NewSessionStore()
	token, err := sessions.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec, reached := runGate(t, sessions, "Bearer "+token)
	if !reached {
		t.Fatalf("handler not reached with a valid session token")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAdminAuthRevokedToken(t *testing.T) {
	sessions := auth.NewSessionStore()
	token, _ := sessions.Issue()
	sessions.Revoke(token)

	_, reached := runGate(t, sessions, "Bearer "+token)
	if reached {
		t.Fatalf("handler reached with a revoked token")
	}
}
