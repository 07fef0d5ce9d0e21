// Package repository defines error types that are reused across the
// storage layer. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the supplied secret code does
// not match the booking it claims to own, while ErrConflict signals
// that a slot the caller wants is already held by someone else.
package repository

import "errors"

// ErrNotFound is returned when no slot matches the given lookup key
// (id or secret code). Handlers should translate this into an HTTP
// 404 response for lookups.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller presents a secret code
// that does not match the slot they are trying to operate on.
// Handlers should translate this into a 400/403 response without
// revealing whether the slot or the code was wrong.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a claim cannot proceed because the
// target slot is already occupied. Handlers should translate this
// into an HTTP 409 response (or 400 for move, matching the public
// API contract).
var ErrConflict = errors.New("conflict")
