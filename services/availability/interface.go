package availability

import (
	"context"
	"time"

	availabilityRepo "bookable/database/repository/availability"
	bookingRepo "bookable/database/repository/booking"
	"bookable/models"

	"github.com/go-redis/redis/v8"
)

// ProviderDirectory resolves provider profiles (timezone, approval).
type ProviderDirectory interface {
	GetProviderProfile(ctx context.Context, id string) (*models.ProviderProfile, error)
}

// Dashboard bundles a provider's upcoming bookings with the coming
// week's published days, all in the provider's zone.
type Dashboard struct {
	Bookings []models.BookingView         `json:"bookings"`
	Days     []models.AvailabilityDayView `json:"availability"`
}

// AvailabilityService owns publishing and reading provider days.
type AvailabilityService interface {
	SetAvailability(ctx context.Context, providerID string, req models.SetAvailabilityRequest) (*models.AvailabilityDay, error)
	GetAvailability(ctx context.Context, providerID, date, viewerTZ string) (*models.AvailabilityDayView, error)
	DeleteAvailability(ctx context.Context, providerID, date string) error
	ProviderDashboard(ctx context.Context, providerID string) (*Dashboard, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Repo      availabilityRepo.AvailabilityRepository
	Bookings  bookingRepo.BookingRepository
	Providers ProviderDirectory
	Cache     *redis.Client
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

var _ AvailabilityService = (*DefaultAvailabilityService)(nil)

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
