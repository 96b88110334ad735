package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"bookable/models"

	"go.mongodb.org/mongo-driver/bson"
)

// MarkLocked acquires the day-level advisory lock. The filter only
// matches while lockedAt is unset, so two concurrent bulk writers on the
// same day cannot both succeed.
func (r *mongoAvailabilityRepo) MarkLocked(ctx context.Context, providerID, date string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"date":       date,
		"lockedAt":   nil,
	}
	update := bson.M{"$set": bson.M{"lockedAt": now.UTC()}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark availability day locked: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a held lock from a missing day.
		if _, getErr := r.GetDay(ctx, providerID, date); getErr == ErrNotFound {
			return ErrNotFound
		}
		return ErrDayLocked
	}
	return nil
}

func (r *mongoAvailabilityRepo) ClearLock(ctx context.Context, providerID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": providerID, "date": date}
	update := bson.M{"$set": bson.M{"lockedAt": nil}}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to clear availability day lock: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) ClearStaleLocks(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"lockedAt": bson.M{"$ne": nil, "$lt": cutoff.UTC()}}
	update := bson.M{"$set": bson.M{"lockedAt": nil}}

	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to clear stale locks: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *mongoAvailabilityRepo) LockedDays(ctx context.Context) ([]models.AvailabilityDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"lockedAt": bson.M{"$ne": nil}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locked days: %w", err)
	}
	defer cursor.Close(ctx)

	var days []models.AvailabilityDay
	if err := cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("error decoding locked days: %w", err)
	}
	return days, nil
}
