package schedule

import (
	"fmt"
	"time"

	"bookable/models"
)

// Generate turns a working window into an ordered run of fixed-length,
// non-overlapping slots anchored at windowStart. A trailing period
// shorter than the duration is dropped, never truncated. Pure function
// of its inputs; every slot comes back unbooked.
func Generate(windowStart, windowEnd time.Time, durationMinutes int) ([]models.Slot, error) {
	if durationMinutes <= 0 {
		return nil, &InvalidWindowError{Reason: fmt.Sprintf("duration must be positive, got %d", durationMinutes)}
	}
	if !windowEnd.After(windowStart) {
		return nil, &InvalidWindowError{Reason: "window end must be after window start"}
	}

	duration := time.Duration(durationMinutes) * time.Minute
	var slots []models.Slot
	for cur := windowStart.UTC(); ; {
		slotEnd := cur.Add(duration)
		if slotEnd.After(windowEnd.UTC()) {
			break
		}
		slots = append(slots, models.Slot{
			Start:    cur,
			End:      slotEnd,
			IsBooked: false,
		})
		cur = slotEnd
	}
	return slots, nil
}
