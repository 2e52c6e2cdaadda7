package services

import "errors"

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrConflict is returned when a conditional write loses its guard, e.g.
// responding to an invitation that already left the pending state.
var ErrConflict = errors.New("document state conflict")
