// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into an audit log.
package queue

// Event actions published to the slot.events queue.
const (
	ActionBooked    = "booked"
	ActionMoved     = "moved"
	ActionCancelled = "cancelled"
)

// SlotEvent is published whenever a slot changes occupancy.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.  The secret code is deliberately absent:
// it is a credential, not event data.
type SlotEvent struct {
	Action     string `json:"action"`                 // booked | moved | cancelled
	SlotID     uint64 `json:"slot_id"`                // slot affected (target slot for moves)
	FromSlotID uint64 `json:"from_slot_id,omitempty"` // original slot, set for moves only
	Date       string `json:"date"`
	Time       string `json:"time"`
	Group      string `json:"group_name"`
	UserName   string `json:"user_name,omitempty"` // empty for admin cancellations of free slots
	OccurredAt string `json:"occurred_at"`
}
