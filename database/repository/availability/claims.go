package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// TryClaimSlot is the engine's atomic conditional update: one UpdateOne
// whose filter matches the slot only while it is unbooked, with the
// positional operator flipping the flag. MatchedCount==0 means the claim
// lost the race (or the slot/day never existed).
func (r *mongoAvailabilityRepo) TryClaimSlot(ctx context.Context, providerID string, start, end time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"slots": bson.M{
			"$elemMatch": bson.M{
				"start":    start.UTC(),
				"end":      end.UTC(),
				"isBooked": false,
			},
		},
	}
	update := bson.M{"$set": bson.M{"slots.$.isBooked": true}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to claim slot: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

// ReleaseSlot flips isBooked back to false. The filter does not check
// the current flag value, so releasing an already-free slot matches
// nothing and succeeds silently.
func (r *mongoAvailabilityRepo) ReleaseSlot(ctx context.Context, providerID string, start, end time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"slots": bson.M{
			"$elemMatch": bson.M{
				"start": start.UTC(),
				"end":   end.UTC(),
			},
		},
	}
	update := bson.M{"$set": bson.M{"slots.$.isBooked": false}}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	return nil
}
