package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oreshkin/slotbook/internal/model"
	"github.com/oreshkin/slotbook/internal/repository"
	"github.com/oreshkin/slotbook/internal/service"
)

// BookingService is the slice of the booking engine the HTTP layer needs.
// Defined here so handlers can be exercised against a mock in tests.
type BookingService interface {
	Book(ctx context.Context, slotID uint64, name, code string) error
	FindBooking(ctx context.Context, code string) (*model.Slot, error)
	Move(ctx context.Context, oldSlotID, newSlotID uint64, code string) error
	Cancel(ctx context.Context, slotID uint64) error
}

// SlotQueries exposes the read-only slot projections.
type SlotQueries interface {
	ListAll(ctx context.Context) ([]model.Slot, error)
	ListPublic(ctx context.Context) ([]model.PublicSlot, error)
}

// BookingHandler serves the anonymous booking surface: the public slot
// grid, code-based booking lookup, book and move.  No authentication is
// involved anywhere here — possession of a slot's secret code is the
// entire holder credential.
type BookingHandler struct {
	Engine BookingService
	Slots  SlotQueries
}

// NewBookingHandler constructs a BookingHandler.  Both dependencies must
// be non-nil.
func NewBookingHandler(engine BookingService, slots SlotQueries) *BookingHandler {
	if engine == nil || slots == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine, Slots: slots}
}

// ----- DTOs -----

type myBookingReq struct {
	SecretCode string `json:"secretCode"`
}

type bookReq struct {
	SlotID     uint64 `json:"slotId"`
	UserName   string `json:"userName"`
	SecretCode string `json:"secretCode"`
}

type moveReq struct {
	OldSlotID  uint64 `json:"oldSlotId"`
	NewSlotID  uint64 `json:"newSlotId"`
	SecretCode string `json:"secretCode"`
}

// ListSlots handles GET /api/slots.  Occupant details are redacted to a
// 0/1 flag by the query itself, so anonymous callers only ever see
// availability.
func (h *BookingHandler) ListSlots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slots, err := h.Slots.ListPublic(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch slots"})
	}
	return c.JSON(http.StatusOK, slots)
}

// MyBooking handles POST /api/my-booking.  The secret code is the only
// lookup key; no other identifying information grants access to a booking.
func (h *BookingHandler) MyBooking(c echo.Context) error {
	var req myBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.SecretCode) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slot, err := h.Engine.FindBooking(ctx, req.SecretCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error fetching booking"})
	}
	return c.JSON(http.StatusOK, slot)
}

// Book handles POST /api/book.  When two requests race for the same free
// slot, the engine's conditional claim lets exactly one through; the loser
// receives 409 and is expected to re-fetch the slot list.
func (h *BookingHandler) Book(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SlotID == 0 || strings.TrimSpace(req.UserName) == "" || strings.TrimSpace(req.SecretCode) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing fields"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Engine.Book(ctx, req.SlotID, req.UserName, req.SecretCode); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing fields"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot already booked"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to book slot"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Move handles POST /api/move.  All engine-reported failures map to 400
// with the engine's reason, matching the public contract: the caller
// cannot distinguish a wrong code from a nonexistent booking.
func (h *BookingHandler) Move(c echo.Context) error {
	var req moveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OldSlotID == 0 || req.NewSlotID == 0 || strings.TrimSpace(req.SecretCode) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing fields"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Engine.Move(ctx, req.OldSlotID, req.NewSlotID, req.SecretCode); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing fields"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking or code"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "target slot is occupied"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "target slot not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "move failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
