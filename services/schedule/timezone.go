package schedule

import (
	"fmt"
	"time"
)

// Layouts accepted for provider-local wall-clock input.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

// ValidateTimeZone reports whether tz is a recognized IANA zone identifier.
func ValidateTimeZone(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// ToInstant combines a calendar date and an optional wall-clock time
// (defaulting to midnight) in the given zone into an absolute UTC
// instant. The zone's offset on that date, including DST, applies.
func ToInstant(dateStr, timeStr, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		return time.Time{}, &InvalidTimeZoneError{TZ: tz}
	}

	if timeStr == "" {
		t, err := time.ParseInLocation(DateLayout, dateStr, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
		}
		return t.UTC(), nil
	}

	t, err := time.ParseInLocation(DateTimeLayout, dateStr+" "+timeStr, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", dateStr, timeStr, err)
	}
	return t.UTC(), nil
}

// ParseLocalDateTime parses a combined "2006-01-02 15:04" wall-clock
// string in the given zone into a UTC instant.
func ParseLocalDateTime(local, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		return time.Time{}, &InvalidTimeZoneError{TZ: tz}
	}
	t, err := time.ParseInLocation(DateTimeLayout, local, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid local datetime %q: %w", local, err)
	}
	return t.UTC(), nil
}

// FromInstant formats a UTC instant into (date, time) strings in the
// given zone.
func FromInstant(t time.Time, tz string) (string, string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		return "", "", &InvalidTimeZoneError{TZ: tz}
	}
	local := t.In(loc)
	return local.Format(DateLayout), local.Format(TimeLayout), nil
}

// FormatInstant renders a UTC instant as a combined local string.
func FormatInstant(t time.Time, tz string) (string, error) {
	dateStr, timeStr, err := FromInstant(t, tz)
	if err != nil {
		return "", err
	}
	return dateStr + " " + timeStr, nil
}

// UTCDate returns the UTC calendar date an instant falls on.
func UTCDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
