package userRepo

import (
	"context"
	"errors"

	"bookable/database"
	"bookable/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetProviderProfile returns the profile slice the reservation engine
	// consumes. The user must carry the provider role.
	GetProviderProfile(ctx context.Context, id string) (*models.ProviderProfile, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	ListProviders(ctx context.Context, approvedOnly bool) ([]models.User, error)

	EnsureIndexes() error
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a MongoDB-backed UserRepository.
func NewMongoUserRepo() UserRepository {
	return &mongoUserRepo{
		coll: database.DB().Collection("users"),
	}
}
