package reservation

import (
	"context"
	"errors"
	"time"

	availabilityRepo "bookable/database/repository/availability"
	bookingRepo "bookable/database/repository/booking"
	userRepo "bookable/database/repository/user"
	"bookable/models"
	"bookable/services/schedule"
	"bookable/utils"

	"go.uber.org/zap"
)

// Reserve converts the requested wall-clock window into UTC using the
// provider's timezone, validates it, claims the slot atomically, and
// records a pending booking. Claim and insert are two storage writes;
// an insert failure releases the claimed slot again so it is not
// stranded.
func (s *DefaultReservationService) Reserve(ctx context.Context, requesterID string, req models.ReserveRequest) (*models.Booking, error) {
	logger := utils.GetLogger()

	provider, err := s.Providers.GetProviderProfile(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, &NotFoundError{Entity: "provider"}
		}
		return nil, err
	}
	if !provider.IsApproved {
		return nil, &AuthorizationError{Message: "provider is not approved for booking"}
	}

	if s.Catalog != nil {
		ok, err := s.Catalog.Exists(ctx, req.ServiceID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &NotFoundError{Entity: "service"}
		}
	}

	// The provider's zone is the canonical frame for its slots.
	start, err := schedule.ParseLocalDateTime(req.StartLocal, provider.TimeZone)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	end, err := schedule.ParseLocalDateTime(req.EndLocal, provider.TimeZone)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if !end.After(start) {
		return nil, &ValidationError{Message: "end must be after start"}
	}
	if !start.After(s.now()) {
		return nil, &PastTimeError{Start: req.StartLocal}
	}

	overlapping, err := s.Bookings.HasOverlapping(ctx, requesterID, start, end)
	if err != nil {
		return nil, err
	}
	if overlapping {
		return nil, &DoubleBookingError{}
	}

	// The critical step: a single conditional update decides the race.
	if err := s.Availability.TryClaimSlot(ctx, req.ProviderID, start, end); err != nil {
		if errors.Is(err, availabilityRepo.ErrConflict) {
			return nil, &SlotUnavailableError{}
		}
		return nil, err
	}

	requesterTZ, _ := PrincipalTimeZone(ctx)

	booking := &models.Booking{
		UserID:     requesterID,
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		Status:     models.BookingPending,
		Start:      start,
		End:        end,
		TimeZone:   requesterTZ,
	}

	if err := s.Bookings.Create(ctx, booking); err != nil {
		// Compensating action: never strand a claimed slot behind a
		// failed booking insert.
		if relErr := s.Availability.ReleaseSlot(ctx, req.ProviderID, start, end); relErr != nil {
			logger.Error("failed to release slot after booking insert failure",
				zap.String("providerId", req.ProviderID),
				zap.Time("start", start),
				zap.Error(relErr))
		}
		if errors.Is(err, bookingRepo.ErrDuplicate) {
			return nil, &SlotUnavailableError{}
		}
		return nil, err
	}

	logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("userId", requesterID),
		zap.String("providerId", req.ProviderID),
		zap.Time("start", start))
	return booking, nil
}

// Release frees the slot backing a booking. Idempotent.
func (s *DefaultReservationService) Release(ctx context.Context, providerID string, start, end time.Time) error {
	return s.Availability.ReleaseSlot(ctx, providerID, start, end)
}

type principalTZKey struct{}

// WithPrincipalTimeZone stores the requester's display timezone on the
// context so Reserve can stamp it onto the booking record.
func WithPrincipalTimeZone(ctx context.Context, tz string) context.Context {
	return context.WithValue(ctx, principalTZKey{}, tz)
}

// PrincipalTimeZone retrieves the requester's display timezone, if set.
func PrincipalTimeZone(ctx context.Context) (string, bool) {
	tz, ok := ctx.Value(principalTZKey{}).(string)
	return tz, ok && tz != ""
}
