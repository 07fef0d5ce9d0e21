package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oreshkin/slotbook/internal/auth"
)

// AdminHandler serves the admin surface: login against the single fixed
// credential, the unredacted slot listing, and cancel.  The listing and
// cancel routes are wrapped by middleware.AdminAuth, so by the time they
// run the bearer token has already been checked against the session store.
type AdminHandler struct {
	Login        string // recognized admin login name
	PasswordHash string // bcrypt digest of the admin password
	Sessions     *auth.SessionStore
	Engine       BookingService
	Slots        SlotQueries
}

// NewAdminHandler constructs an AdminHandler for the single admin identity.
func NewAdminHandler(login, passwordHash string, sessions *auth.SessionStore, engine BookingService, slots SlotQueries) *AdminHandler {
	if sessions == nil || engine == nil || slots == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		Login:        login,
		PasswordHash: passwordHash,
		Sessions:     sessions,
		Engine:       engine,
		Slots:        slots,
	}
}

type adminLoginReq struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type cancelReq struct {
	SlotID uint64 `json:"slotId"`
}

// HandleLogin handles POST /api/admin/login.  Both the login name and the
// password digest must match; the failure response is identical either way
// so nothing distinguishes "bad login" from "bad password".
func (h *AdminHandler) HandleLogin(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Login != h.Login || !auth.VerifyPassword(h.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	token, err := h.Sessions.Issue()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// ListSlots handles GET /api/admin/slots.  Unlike the public listing this
// returns full slot records, occupant names and secret codes included.
func (h *AdminHandler) ListSlots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slots, err := h.Slots.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch slots"})
	}
	return c.JSON(http.StatusOK, slots)
}

// Cancel handles POST /api/admin/cancel.  The release is unconditional and
// idempotent: cancelling a free slot succeeds and changes nothing.
func (h *AdminHandler) Cancel(c echo.Context) error {
	var req cancelReq
	if err := c.Bind(&req); err != nil || req.SlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slotId required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Engine.Cancel(ctx, req.SlotID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Logout handles POST /api/admin/logout.  Revoking an unknown token is a
// no-op, so logout always succeeds for a well-formed request.
func (h *AdminHandler) Logout(c echo.Context) error {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bearer token required"})
	}
	h.Sessions.Revoke(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
	return c.NoContent(http.StatusNoContent)
}
