package model

import "time"

// Slot is a single bookable unit of the schedule: one (date, time, group)
// combination.  The catalog of slots is created once at seed time; booking
// operations only ever touch the occupant fields.
//
// Fields:
//  ID         – primary key identifier.
//  Date       – calendar date in YYYY-MM-DD form.
//  Time       – local clock time in HH:MM form.
//  Group      – label of the cohort the slot belongs to.
//  UserName   – display name of the current holder; nil when the slot is free.
//  SecretCode – code chosen by the holder at booking time; nil when free.
//               Possession of this string is the holder's only credential.
//  CreatedAt  – creation timestamp (seed time).
//
// UserName and SecretCode are always set or cleared together: a slot is
// either fully free or fully held, never in between.
type Slot struct {
	ID         uint64    `json:"id"`          // slots.id
	Date       string    `json:"date"`        // slots.date
	Time       string    `json:"time"`        // slots.time
	Group      string    `json:"group_name"`  // slots.group_name
	UserName   *string   `json:"user_name"`   // slots.user_name (nullable)
	SecretCode *string   `json:"secret_code"` // slots.secret_code (nullable)
	CreatedAt  time.Time `json:"created_at"`  // slots.created_at
}

// Booked reports whether the slot currently has a holder.
func (s *Slot) Booked() bool { return s.UserName != nil }

// PublicSlot is the anonymous projection of a slot.  Occupant identity and
// the secret code are reduced to a 0/1 flag so the public grid can show
// availability without leaking who holds what.
type PublicSlot struct {
	ID       uint64 `json:"id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Group    string `json:"group_name"`
	IsBooked int    `json:"is_booked"`
}
