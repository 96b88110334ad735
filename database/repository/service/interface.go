package serviceRepo

import (
	"context"
	"errors"

	"bookable/database"
	"bookable/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("service not found")

// ServiceRepository is the opaque service catalog. The reservation
// engine only ever asks whether an ID exists.
type ServiceRepository interface {
	Create(ctx context.Context, svc *models.Service) error
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]models.Service, error)

	EnsureIndexes() error
}

type mongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo constructs a MongoDB-backed ServiceRepository.
func NewMongoServiceRepo() ServiceRepository {
	return &mongoServiceRepo{
		coll: database.DB().Collection("services"),
	}
}
