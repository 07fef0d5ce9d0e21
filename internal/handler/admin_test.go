package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/oreshkin/slotbook/internal/auth"
	"github.com/oreshkin/slotbook/internal/model"
)

func newTestAdmin(t *testing.T, eng *mockBooking, q *mockQueries) *AdminHandler {
	t.Helper()
	hash, err := auth.HashPassword("ipassword", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return NewAdminHandler("admin", hash, auth.NewSessionStore(), eng, q)
}

func TestAdminLogin(t *testing.T) {
	h := newTestAdmin(t, &mockBooking{}, &mockQueries{})

	rec := doJSON(t, h.HandleLogin, http.MethodPost, "/api/admin/login",
		`{"login":"admin","password":"ipassword"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	token := body["token"]
	if token == "" {
		t.Fatalf("login response carries no token")
	}
	if !h.Sessions.Valid(token) {
		t.Fatalf("issued token not registered in the session store")
	}
}

func TestAdminLoginRejected(t *testing.T) {
	h := newTestAdmin(t, &mockBooking{}, &mockQueries{})

	wrongPass := doJSON(t, h.HandleLogin, http.MethodPost, "/api/admin/login",
		`{"login":"admin","password":"guess"}`)
	wrongLogin := doJSON(t, h.HandleLogin, http.MethodPost, "/api/admin/login",
		`{"login":"root","password":"ipassword"}`)

	for name, rec := range map[string]*httptest.ResponseRecorder{
		"wrong password": wrongPass,
		"wrong login":    wrongLogin,
	} {
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
	}
	// Nothing in the response may reveal which field was wrong.
	if wrongPass.Body.String() != wrongLogin.Body.String() {
		t.Fatalf("rejection bodies differ: %q vs %q", wrongPass.Body.String(), wrongLogin.Body.String())
	}
	if h.Sessions.Len() != 0 {
		t.Fatalf("failed logins must not create sessions, store has %d", h.Sessions.Len())
	}
}

func TestAdminListSlotsIncludesSecrets(t *testing.T) {
	q := &mockQueries{allResult: []model.Slot{
		{ID: 1, Date: "2026-03-03", Time: "10:00", Group: "Группа 1"},
		{ID: 2, Date: "2026-03-03", Time: "10:15", Group: "Группа 1",
			UserName: strPtr("Ivanov"), SecretCode: strPtr("9012")},
	}}
	h := newTestAdmin(t, &mockBooking{}, q)

	rec := doJSON(t, h.ListSlots, http.MethodGet, "/api/admin/slots", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var slots []model.Slot
	if err := json.Unmarshal(rec.Body.Bytes(), &slots); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	if slots[0].SecretCode != nil {
		t.Fatalf("free slot must have a null secret code")
	}
	if slots[1].SecretCode == nil || *slots[1].SecretCode != "9012" {
		t.Fatalf("admin listing must include the occupant's secret code")
	}
}

func TestAdminCancel(t *testing.T) {
	eng := &mockBooking{}
	h := newTestAdmin(t, eng, &mockQueries{})

	rec := doJSON(t, h.Cancel, http.MethodPost, "/api/admin/cancel", `{"slotId":4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if eng.cancelledID != 4 {
		t.Fatalf("engine cancelled slot %d, want 4", eng.cancelledID)
	}
}

func TestAdminCancelValidation(t *testing.T) {
	h := newTestAdmin(t, &mockBooking{}, &mockQueries{})

	rec := doJSON(t, h.Cancel, http.MethodPost, "/api/admin/cancel", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminCancelStorageFailure(t *testing.T) {
	h := newTestAdmin(t, &mockBooking{cancelErr: errors.New("db down")}, &mockQueries{})

	rec := doJSON(t, h.Cancel, http.MethodPost, "/api/admin/cancel", `{"slotId":4}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestAdminLogout(t *testing.T) {
	h := newTestAdmin(t, &mockBooking{}, &mockQueries{})
	token, err := h.Sessions.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if h.Sessions.Valid(token) {
		t.Fatalf("token still valid after logout")
	}
}

func TestAdminLogoutWithoutBearer(t *testing.T) {
	h := newTestAdmin(t, &mockBooking{}, &mockQueries{})

	rec := doJSON(t, h.Logout, http.MethodPost, "/api/admin/logout", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
