package dormitory

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine, the service and the persistence
// adapters. Callers classify with errors.Is; handlers map them to status codes.
var (
	// ErrRoomUnavailable is returned when assigning an occupied or unknown room.
	ErrRoomUnavailable = errors.New("room is occupied or does not exist")
	// ErrRoomNotOccupied is returned when vacating a vacant or unknown room.
	ErrRoomNotOccupied = errors.New("room is vacant or does not exist")
	// ErrDormerNotFound is returned when no dormer is assigned to the room.
	ErrDormerNotFound = errors.New("no dormer assigned to room")
	// ErrPaymentNotFound is returned when no payment record matches (room, month).
	ErrPaymentNotFound = errors.New("payment record not found")
	// ErrInvalidAmount is returned for negative or non-finite amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidDetails is returned when required fields are empty.
	ErrInvalidDetails = errors.New("invalid details")
	// ErrNotConfigured is returned when the dormitory setup has not been done.
	ErrNotConfigured = errors.New("dormitory is not set up")
	// ErrMalformedRecord marks a persisted line that could not be decoded.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrIOFailure marks a failed read or write of persisted state.
	ErrIOFailure = errors.New("i/o failure")
)

// RecordError describes a skipped persisted record.
type RecordError struct {
	File   string
	Line   int
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, ErrMalformedRecord, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}
