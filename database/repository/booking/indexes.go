package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"bookable/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (r *mongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// At most one active booking per (provider, start, end). Partial
		// filter keeps declined/cancelled/completed records out of the
		// constraint so a freed slot can be rebooked.
		{
			Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "start", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_active_provider_interval").
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": bson.A{models.BookingPending, models.BookingConfirmed}},
				}),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("user_status_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("provider_start_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
