package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"bookable/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func activeStatuses() bson.M {
	return bson.M{"$in": bson.A{models.BookingPending, models.BookingConfirmed}}
}

// HasOverlapping applies the half-open interval test:
// existing.start < end && existing.end > start.
func (r *mongoBookingRepo) HasOverlapping(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"userId": userID,
		"status": activeStatuses(),
		"start":  bson.M{"$lt": end.UTC()},
		"end":    bson.M{"$gt": start.UTC()},
	}
	count, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping bookings: %w", err)
	}
	return count > 0, nil
}

func (r *mongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"userId": userID}, bson.D{{Key: "createdAt", Value: -1}})
}

func (r *mongoBookingRepo) ListByProviderFrom(ctx context.Context, providerID string, from time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"providerId": providerID,
		"start":      bson.M{"$gte": from.UTC()},
	}
	return r.list(ctx, filter, bson.D{{Key: "start", Value: 1}})
}

func (r *mongoBookingRepo) ListAll(ctx context.Context) ([]models.Booking, error) {
	return r.list(ctx, bson.M{}, bson.D{{Key: "createdAt", Value: -1}})
}

func (r *mongoBookingRepo) ActiveInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"providerId": providerID,
		"status":     activeStatuses(),
		"start":      bson.M{"$gte": from.UTC(), "$lt": to.UTC()},
	}
	return r.list(ctx, filter, bson.D{{Key: "start", Value: 1}})
}

func (r *mongoBookingRepo) list(ctx context.Context, filter bson.M, sort bson.D) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
