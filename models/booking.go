package models

import "time"

// BookingStatus enumerates the booking lifecycle states.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Valid reports whether s is a known status value.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingDeclined, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Active reports whether s still holds its slot (pending or confirmed).
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Booking is a requester's claim on one provider slot.
// Start/End are UTC; TimeZone is the requester's zone, kept for display only.
type Booking struct {
	ID         string        `bson:"id" json:"id"`
	UserID     string        `bson:"userId" json:"userId"`
	ProviderID string        `bson:"providerId" json:"providerId"`
	ServiceID  string        `bson:"serviceId" json:"serviceId"`
	Status     BookingStatus `bson:"status" json:"status"`
	Start      time.Time     `bson:"start" json:"start"`
	End        time.Time     `bson:"end" json:"end"`
	TimeZone   string        `bson:"timeZone,omitempty" json:"timeZone,omitempty"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// BookingView is a booking with its times formatted into a viewer's zone.
type BookingView struct {
	Booking
	StartLocal string `json:"startLocal"`
	EndLocal   string `json:"endLocal"`
}

// ReserveRequest defines the payload for creating a booking. Times are
// wall-clock strings interpreted in the provider's timezone.
type ReserveRequest struct {
	ProviderID string `json:"providerId" binding:"required"`
	ServiceID  string `json:"serviceId" binding:"required"`
	StartLocal string `json:"startLocal" binding:"required"` // "2006-01-02 15:04"
	EndLocal   string `json:"endLocal" binding:"required"`
}

// UpdateBookingStatusRequest defines the payload for a status transition.
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}
