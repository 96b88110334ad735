package reservation

import (
	"context"
	"errors"

	bookingRepo "bookable/database/repository/booking"
	"bookable/models"
	"bookable/utils"

	"go.uber.org/zap"
)

// transitionAllowed is the single permission table for booking status
// changes. Only pending moves anywhere: the owning provider may confirm
// or decline, the owning requester (or an admin) may cancel.
func transitionAllowed(b *models.Booking, actorID string, actorRole models.Role, to models.BookingStatus) error {
	if b.Status != models.BookingPending {
		return &InvalidTransitionError{From: string(b.Status), To: string(to)}
	}

	switch to {
	case models.BookingConfirmed, models.BookingDeclined:
		if actorRole != models.RoleProvider {
			return &AuthorizationError{Message: "only the provider may confirm or decline"}
		}
		if b.ProviderID != actorID {
			return &AuthorizationError{Message: "booking belongs to another provider"}
		}
	case models.BookingCancelled:
		if actorRole == models.RoleAdmin {
			return nil
		}
		if actorRole != models.RoleUser {
			return &AuthorizationError{Message: "only the requester or an admin may cancel"}
		}
		if b.UserID != actorID {
			return &AuthorizationError{Message: "booking belongs to another user"}
		}
	default:
		return &InvalidTransitionError{From: string(b.Status), To: string(to)}
	}
	return nil
}

// UpdateStatus applies a booking state transition. Moving out of
// pending into declined or cancelled releases the backing slot.
func (s *DefaultReservationService) UpdateStatus(ctx context.Context, bookingID, actorID string, actorRole models.Role, newStatus models.BookingStatus) (*models.Booking, error) {
	logger := utils.GetLogger()

	if !newStatus.Valid() {
		return nil, &ValidationError{Message: "unknown booking status " + string(newStatus)}
	}

	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{Entity: "booking"}
		}
		return nil, err
	}

	if err := transitionAllowed(booking, actorID, actorRole, newStatus); err != nil {
		return nil, err
	}

	updated, err := s.Bookings.UpdateStatus(ctx, bookingID, booking.Status, newStatus)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			// The conditional write matched nothing: a concurrent
			// transition moved the booking out from under the
			// permission check.
			return nil, &InvalidTransitionError{From: string(booking.Status), To: string(newStatus)}
		}
		return nil, err
	}

	if newStatus == models.BookingDeclined || newStatus == models.BookingCancelled {
		if err := s.Release(ctx, updated.ProviderID, updated.Start, updated.End); err != nil {
			logger.Error("failed to release slot for terminal booking",
				zap.String("bookingId", bookingID),
				zap.Error(err))
		}
	}

	logger.Info("booking status updated",
		zap.String("bookingId", bookingID),
		zap.String("status", string(newStatus)))
	return updated, nil
}

// CancelOrDelete removes a pending booking on the requester's behalf
// and frees its slot.
func (s *DefaultReservationService) CancelOrDelete(ctx context.Context, bookingID, requesterID string) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return &NotFoundError{Entity: "booking"}
		}
		return err
	}
	if booking.UserID != requesterID {
		return &AuthorizationError{Message: "booking belongs to another user"}
	}
	if booking.Status != models.BookingPending {
		return &InvalidTransitionError{From: string(booking.Status), To: "deleted"}
	}

	// Move to cancelled through the conditional write first so a racing
	// confirm cannot be deleted out from under the provider.
	if _, err := s.Bookings.UpdateStatus(ctx, bookingID, models.BookingPending, models.BookingCancelled); err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return &InvalidTransitionError{From: string(booking.Status), To: "deleted"}
		}
		return err
	}
	if err := s.Release(ctx, booking.ProviderID, booking.Start, booking.End); err != nil {
		return err
	}
	return s.Bookings.Delete(ctx, bookingID)
}
