// Package service implements the booking engine: the three holder-facing
// mutations (book, find, move) and the admin cancel, each with an explicit
// atomicity contract over the slot store.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/oreshkin/slotbook/internal/model"
	"github.com/oreshkin/slotbook/internal/queue"
	"github.com/oreshkin/slotbook/internal/repository"
)

// ErrInvalidInput is returned when a required field is missing or blank
// after trimming.  Handlers translate it into an HTTP 400 response.
var ErrInvalidInput = errors.New("missing fields")

// EventPublisher publishes slot lifecycle events to the message broker.
// Publishing is best-effort: the engine logs failures and never fails a
// committed booking because of them.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.SlotEvent) error
}

// BookingEngine performs all occupancy mutations.  Every read-modify-write
// cycle round-trips through the slot store; the engine holds no slot state
// of its own, so state is never stale across operations.
type BookingEngine struct {
	slots  *repository.SlotRepo
	events EventPublisher // may be nil when the broker is disabled
}

// NewBookingEngine constructs an engine over the given store.  events may
// be nil, in which case no lifecycle events are published.
func NewBookingEngine(slots *repository.SlotRepo, events EventPublisher) *BookingEngine {
	if slots == nil {
		panic("nil slot repository passed to NewBookingEngine")
	}
	return &BookingEngine{slots: slots, events: events}
}

// Book claims a free slot for the given name under the given secret code.
// The claim is a single conditional update in the store: when two requests
// race for the same free slot, exactly one succeeds and the other gets
// repository.ErrConflict.  A claim on an unknown slot id also reports
// ErrConflict — from the caller's point of view the slot is simply not
// available.
func (e *BookingEngine) Book(ctx context.Context, slotID uint64, name, code string) error {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if slotID == 0 || name == "" || code == "" {
		return ErrInvalidInput
	}
	changed, err := e.slots.ClaimIfFree(ctx, slotID, name, code)
	if err != nil {
		return err
	}
	if !changed {
		return repository.ErrConflict
	}
	e.publish(ctx, queue.ActionBooked, slotID, 0, name)
	return nil
}

// FindBooking resolves a secret code to the slot it currently holds.
// Lookup only, no side effects.  Returns repository.ErrNotFound when no
// slot carries the code.
func (e *BookingEngine) FindBooking(ctx context.Context, code string) (*model.Slot, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidInput
	}
	return e.slots.FindByCode(ctx, code)
}

// Move transfers a booking from oldSlotID to newSlotID, authenticated by
// the booking's secret code.  The whole operation runs in one transaction:
// both rows are locked first, ownership and target freedom are re-checked
// under those locks, and only then are the two writes issued.  Either both
// writes commit or neither does — the holder can never end up with two
// slots, or none.
//
// Errors: repository.ErrForbidden when the code does not match the old
// slot (or the old slot does not exist — the two cases are deliberately
// indistinguishable), repository.ErrConflict when the target is occupied,
// repository.ErrNotFound when the target slot id does not exist.
func (e *BookingEngine) Move(ctx context.Context, oldSlotID, newSlotID uint64, code string) error {
	code = strings.TrimSpace(code)
	if oldSlotID == 0 || newSlotID == 0 || code == "" {
		return ErrInvalidInput
	}

	tx, err := e.slots.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock both rows in ascending id order so two opposing moves cannot
	// deadlock against each other.
	firstID, secondID := oldSlotID, newSlotID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := e.slots.GetByIDForUpdateTx(ctx, tx, firstID)
	if err != nil {
		return moveFetchError(firstID == oldSlotID, err)
	}
	second := first
	if secondID != firstID {
		second, err = e.slots.GetByIDForUpdateTx(ctx, tx, secondID)
		if err != nil {
			return moveFetchError(secondID == oldSlotID, err)
		}
	}
	old, target := first, second
	if oldSlotID != firstID {
		old, target = second, first
	}

	// Ownership proof: the code must match the old slot's current code.
	if old.SecretCode == nil || old.UserName == nil || *old.SecretCode != code {
		return repository.ErrForbidden
	}
	// The target must still be free.  A move onto the holder's own slot
	// lands here too: the target is occupied, by them.
	if target.UserName != nil {
		return repository.ErrConflict
	}

	name := *old.UserName
	if err := e.slots.ClaimTx(ctx, tx, newSlotID, name, code); err != nil {
		return err
	}
	if err := e.slots.ReleaseTx(ctx, tx, oldSlotID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	e.publish(ctx, queue.ActionMoved, newSlotID, oldSlotID, name)
	return nil
}

// moveFetchError maps a row fetch failure inside Move onto the public
// taxonomy.  A missing old slot reads as a bad credential so callers
// cannot probe which slot ids exist; a missing target is reported as such.
func moveFetchError(isOldSlot bool, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		if isOldSlot {
			return repository.ErrForbidden
		}
		return repository.ErrNotFound
	}
	return err
}

// Cancel releases a slot regardless of its current occupant.  It is
// idempotent: cancelling an already-free (or unknown) slot is a no-op
// success.  Admin only; the session check happens at the HTTP boundary.
func (e *BookingEngine) Cancel(ctx context.Context, slotID uint64) error {
	if slotID == 0 {
		return ErrInvalidInput
	}
	// Read the occupant first so the cancellation event can name them.
	// The release itself stays unconditional.
	var prevName string
	if s, err := e.slots.GetByID(ctx, slotID); err == nil && s.UserName != nil {
		prevName = *s.UserName
	}
	if err := e.slots.Release(ctx, slotID); err != nil {
		return err
	}
	if prevName != "" {
		e.publish(ctx, queue.ActionCancelled, slotID, 0, prevName)
	}
	return nil
}

// publish emits a lifecycle event for the given slot.  Failures are logged
// and swallowed: the database commit already happened and is authoritative.
func (e *BookingEngine) publish(ctx context.Context, action string, slotID, fromSlotID uint64, name string) {
	if e.events == nil {
		return
	}
	ev := queue.SlotEvent{
		Action:     action,
		SlotID:     slotID,
		FromSlotID: fromSlotID,
		UserName:   name,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if s, err := e.slots.GetByID(ctx, slotID); err == nil {
		ev.Date = s.Date
		ev.Time = s.Time
		ev.Group = s.Group
	}
	if err := e.events.Publish(ctx, ev); err != nil {
		log.Printf("booking: publish %s event for slot %d failed: %v", action, slotID, err)
	}
}
