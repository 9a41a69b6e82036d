// Package ledger owns the raffle ticket inventory and the draw.  This
// file defines the error taxonomy surfaced to callers; every validation
// failure is a typed value so handlers can report the exact reason,
// which matters because ticket disputes are only resolvable with
// precise errors.
package ledger

import (
	"errors"
	"fmt"

	"github.com/connectfe/connectfe-api/internal/model"
)

// ErrRaffleNotFound marks an unknown raffle id; not retryable.
var ErrRaffleNotFound = errors.New("raffle not found")

// ErrRaffleNotActive is returned when the raffle can no longer accept
// the requested action (sold out for sales, drawn, cancelled, or past
// its sales deadline).
var ErrRaffleNotActive = errors.New("raffle not active")

// ErrPurchaseLimitExceeded is returned when a reservation asks for more
// numbers than the per-purchase policy allows.
var ErrPurchaseLimitExceeded = errors.New("purchase limit exceeded")

// ErrInsufficientAvailability is returned by quick-pick when fewer
// numbers remain unsold than were requested.
var ErrInsufficientAvailability = errors.New("insufficient availability")

// ErrNoParticipants is returned when a draw is attempted on a raffle
// with zero sold tickets.
var ErrNoParticipants = errors.New("no participants")

// ErrForbidden is returned when the caller does not own the raffle.
var ErrForbidden = errors.New("forbidden")

// ErrStorageUnavailable wraps transient storage failures (timeouts,
// lost connections).  Callers may retry with backoff; the ledger never
// retries itself because reservation is not idempotent.
var ErrStorageUnavailable = errors.New("storage unavailable")

// NumbersOutOfRangeError reports requested numbers outside
// [1, totalTickets].
type NumbersOutOfRangeError struct {
	Numbers []uint32
}

func (e *NumbersOutOfRangeError) Error() string {
	return fmt.Sprintf("numbers out of range: %v", e.Numbers)
}

// NumbersSoldError reports the requested numbers that are already sold.
// The whole reservation fails; nothing was allocated.
type NumbersSoldError struct {
	Numbers []uint32
}

func (e *NumbersSoldError) Error() string {
	return fmt.Sprintf("numbers already sold: %v", e.Numbers)
}

// AlreadyDrawnError is returned by DrawWinner on a raffle that has
// already been drawn.  It carries the stored winner so callers can
// answer idempotently instead of re-rolling.
type AlreadyDrawnError struct {
	Winner model.Winner
}

func (e *AlreadyDrawnError) Error() string {
	return fmt.Sprintf("already drawn: ticket %d", e.Winner.TicketNumber)
}

// storageErr wraps unexpected database failures in
// ErrStorageUnavailable, preserving the cause for logs.
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
