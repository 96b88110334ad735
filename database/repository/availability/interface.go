package availabilityRepo

import (
	"context"
	"errors"
	"time"

	"bookable/database"
	"bookable/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors surfaced by the repository. Services translate these
// into their own taxonomy.
var (
	ErrNotFound  = errors.New("availability day not found")
	ErrConflict  = errors.New("slot already booked or missing")
	ErrDayLocked = errors.New("availability day is locked by another writer")
)

// AvailabilityRepository owns persisted per-(provider, day) slot state.
//
// TryClaimSlot and ReleaseSlot are the only sanctioned mutations of a
// slot's isBooked flag; both are single conditional updates against the
// store, never a read followed by a write.
type AvailabilityRepository interface {
	UpsertDay(ctx context.Context, day *models.AvailabilityDay) (*models.AvailabilityDay, error)
	GetDay(ctx context.Context, providerID, date string) (*models.AvailabilityDay, error)
	DeleteDay(ctx context.Context, providerID, date string) error

	// TryClaimSlot atomically sets isBooked=true for the slot matching
	// (providerID, start, end) only if it is currently false. Returns
	// ErrConflict when no unbooked matching slot exists.
	TryClaimSlot(ctx context.Context, providerID string, start, end time.Time) error
	// ReleaseSlot sets isBooked=false for the matching slot. Idempotent;
	// releasing a free or missing slot is not an error.
	ReleaseSlot(ctx context.Context, providerID string, start, end time.Time) error
	// BookedSlots returns the booked slots of a day, for reconciliation.
	BookedSlots(ctx context.Context, providerID, date string) ([]models.Slot, error)

	// MarkLocked acquires the day-level advisory lock; ErrDayLocked when
	// another writer holds it. ClearLock releases it unconditionally.
	MarkLocked(ctx context.Context, providerID, date string, now time.Time) error
	ClearLock(ctx context.Context, providerID, date string) error
	// ClearStaleLocks clears every advisory lock set before cutoff and
	// returns the number of days touched.
	ClearStaleLocks(ctx context.Context, cutoff time.Time) (int64, error)
	// LockedDays lists days currently carrying an advisory lock.
	LockedDays(ctx context.Context) ([]models.AvailabilityDay, error)

	EnsureIndexes() error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB-backed AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &mongoAvailabilityRepo{
		coll: database.DB().Collection("availability"),
	}
}
