package seats

import "errors"

var (
	// ErrNoSeatsRequested rejects an empty selection before any store access
	ErrNoSeatsRequested = errors.New("no seats requested")

	// ErrTooManySeats bounds a single selection request
	ErrTooManySeats = errors.New("too many seats in one selection")

	// ErrLockConflict means the conditional lock write matched fewer rows than
	// requested: somebody else won the race between read and write. The whole
	// batch is rolled back.
	ErrLockConflict = errors.New("seat lock conflict")

	// ErrSeatNotFound is returned by single-seat lookups
	ErrSeatNotFound = errors.New("seat not found")

	// ErrSeatPurchased guards admin status edits on sold seats
	ErrSeatPurchased = errors.New("seat already purchased by a customer")

	// ErrStatusUnchanged guards admin status edits to the current value
	ErrStatusUnchanged = errors.New("seat already has the requested status")
)
