package reservation

import (
	"context"
	"time"

	availabilityRepo "bookable/database/repository/availability"
	bookingRepo "bookable/database/repository/booking"
	userRepo "bookable/database/repository/user"
	"bookable/models"
)

// ServiceCatalog is the slice of the catalog the engine consumes:
// service IDs are opaque, only existence matters.
type ServiceCatalog interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ProviderDirectory resolves provider profiles for booking decisions.
type ProviderDirectory interface {
	GetProviderProfile(ctx context.Context, id string) (*models.ProviderProfile, error)
}

// ReservationService orchestrates booking creation and release around
// the atomic slot claim.
type ReservationService interface {
	Reserve(ctx context.Context, requesterID string, req models.ReserveRequest) (*models.Booking, error)
	Release(ctx context.Context, providerID string, start, end time.Time) error
	UpdateStatus(ctx context.Context, bookingID, actorID string, actorRole models.Role, newStatus models.BookingStatus) (*models.Booking, error)
	CancelOrDelete(ctx context.Context, bookingID, requesterID string) error
}

// DefaultReservationService is the production implementation.
type DefaultReservationService struct {
	Availability availabilityRepo.AvailabilityRepository
	Bookings     bookingRepo.BookingRepository
	Providers    ProviderDirectory
	Catalog      ServiceCatalog
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

var _ ReservationService = (*DefaultReservationService)(nil)
var _ ProviderDirectory = (userRepo.UserRepository)(nil)

func (s *DefaultReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
