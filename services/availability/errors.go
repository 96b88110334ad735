package availability

import "fmt"

// ValidationError reports malformed availability input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a missing availability day or provider.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// DayLockedError reports that another bulk regeneration holds the
// advisory day lock.
type DayLockedError struct {
	Date string
}

func (e *DayLockedError) Error() string {
	return fmt.Sprintf("availability for %s is being rewritten by another request", e.Date)
}

// BookedSlotsError reports that a regeneration would erase slots with
// active bookings whose intervals do not survive in the new grid.
type BookedSlotsError struct {
	Count int
}

func (e *BookedSlotsError) Error() string {
	return fmt.Sprintf("%d booked slot(s) do not fit the new slot grid; decline or wait out the bookings first", e.Count)
}
