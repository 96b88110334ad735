package models

import "time"

// Slot is a fixed-duration booking window inside a provider's day.
// Start and End are always stored as UTC instants.
type Slot struct {
	Start    time.Time `bson:"start" json:"start"`
	End      time.Time `bson:"end" json:"end"`
	IsBooked bool      `bson:"isBooked" json:"isBooked"`
}

// AvailabilityDay holds every slot a provider has published for one
// calendar date. Uniquely keyed by (providerId, date).
type AvailabilityDay struct {
	ProviderID string     `bson:"providerId" json:"providerId"`
	Date       string     `bson:"date" json:"date"` // "2006-01-02", UTC calendar date
	Slots      []Slot     `bson:"slots" json:"slots"`
	TimeZone   string     `bson:"timeZone" json:"timeZone"` // zone the day was generated in
	LockedAt   *time.Time `bson:"lockedAt,omitempty" json:"lockedAt,omitempty"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// SlotView is a slot formatted into a viewer's timezone for display.
type SlotView struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	IsBooked bool   `json:"isBooked"`
}

// AvailabilityDayView is an AvailabilityDay converted for a viewer.
type AvailabilityDayView struct {
	ProviderID string     `json:"providerId"`
	Date       string     `json:"date"`
	TimeZone   string     `json:"timeZone"`
	Slots      []SlotView `json:"slots"`
}

// SetAvailabilityRequest defines the payload for publishing a working window.
type SetAvailabilityRequest struct {
	Date            string `json:"date" binding:"required"`      // "2006-01-02" in the provider's zone
	StartTime       string `json:"startTime" binding:"required"` // "HH:MM" wall clock
	EndTime         string `json:"endTime" binding:"required"`
	DurationMinutes int    `json:"durationMinutes"`
}
