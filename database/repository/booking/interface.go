package bookingRepo

import (
	"context"
	"errors"
	"time"

	"bookable/database"
	"bookable/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("booking not found")
	// ErrDuplicate reports a violation of the unique non-terminal
	// (provider, start, end) constraint, the storage-level backstop
	// behind the atomic slot claim.
	ErrDuplicate = errors.New("an active booking already exists for this provider and time")
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// UpdateStatus moves a booking between statuses with one conditional
	// write; the filter only matches while the booking still holds the
	// from status, so racing transitions cannot both win. ErrNotFound
	// when no booking with that id currently holds from.
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error)
	Delete(ctx context.Context, id string) error

	// HasOverlapping reports whether the user holds a pending/confirmed
	// booking intersecting the half-open interval [start, end).
	HasOverlapping(ctx context.Context, userID string, start, end time.Time) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByProviderFrom(ctx context.Context, providerID string, from time.Time) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	// ActiveInRange returns pending/confirmed bookings for a provider
	// whose start falls in [from, to). Used by the orphaned-claim sweep.
	ActiveInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error)

	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB-backed BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{
		coll: database.DB().Collection("bookings"),
	}
}
