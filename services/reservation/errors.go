package reservation

import "fmt"

// ValidationError reports malformed or out-of-range reservation input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// PastTimeError reports an attempt to book a slot that has already started.
type PastTimeError struct {
	Start string
}

func (e *PastTimeError) Error() string {
	return fmt.Sprintf("cannot book a past time slot (start %s)", e.Start)
}

// DoubleBookingError reports that the requester already holds an
// overlapping active booking.
type DoubleBookingError struct{}

func (e *DoubleBookingError) Error() string {
	return "you already have a booking during this time"
}

// SlotUnavailableError is the race-losing path: the slot claim found no
// matching unbooked slot.
type SlotUnavailableError struct{}

func (e *SlotUnavailableError) Error() string {
	return "time slot no longer available"
}

// NotFoundError reports a missing booking, provider, or service.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// AuthorizationError reports a role or ownership mismatch.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// InvalidTransitionError reports an illegal booking status change.
type InvalidTransitionError struct {
	From, To string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("illegal booking transition %s -> %s", e.From, e.To)
}
