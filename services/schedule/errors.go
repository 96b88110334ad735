package schedule

import "fmt"

// InvalidWindowError reports a degenerate working window or duration.
type InvalidWindowError struct {
	Reason string
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid window: %s", e.Reason)
}

// InvalidTimeZoneError reports an unrecognized zone identifier.
type InvalidTimeZoneError struct {
	TZ string
}

func (e *InvalidTimeZoneError) Error() string {
	return fmt.Sprintf("invalid timezone: %q", e.TZ)
}
