package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"bookable/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoAvailabilityRepo) UpsertDay(ctx context.Context, day *models.AvailabilityDay) (*models.AvailabilityDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	day.UpdatedAt = time.Now().UTC()
	filter := bson.M{"providerId": day.ProviderID, "date": day.Date}
	update := bson.M{
		"$set": bson.M{
			"slots":     day.Slots,
			"timeZone":  day.TimeZone,
			"updatedAt": day.UpdatedAt,
			"lockedAt":  nil,
		},
		"$setOnInsert": bson.M{
			"providerId": day.ProviderID,
			"date":       day.Date,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var out models.AvailabilityDay
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to upsert availability day: %w", err)
	}
	return &out, nil
}

func (r *mongoAvailabilityRepo) GetDay(ctx context.Context, providerID, date string) (*models.AvailabilityDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": providerID, "date": date}
	var day models.AvailabilityDay
	err := r.coll.FindOne(ctx, filter).Decode(&day)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch availability day: %w", err)
	}
	return &day, nil
}

func (r *mongoAvailabilityRepo) DeleteDay(ctx context.Context, providerID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": providerID, "date": date}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete availability day: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAvailabilityRepo) BookedSlots(ctx context.Context, providerID, date string) ([]models.Slot, error) {
	day, err := r.GetDay(ctx, providerID, date)
	if err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	var booked []models.Slot
	for _, s := range day.Slots {
		if s.IsBooked {
			booked = append(booked, s)
		}
	}
	return booked, nil
}
