package store

import (
	"context"
	"errors"
	"time"

	"tastepos/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminStore holds the operator account.
type AdminStore struct {
	Collection *mongo.Collection
}

// NewAdminStore creates an AdminStore bound to the admins collection.
func NewAdminStore(client *mongo.Client) *AdminStore {
	return &AdminStore{Collection: client.Database(DatabaseName).Collection("admins")}
}

// Exists reports whether any admin account has been created.
func (s *AdminStore) Exists(ctx context.Context) (bool, error) {
	count, err := s.Collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the admin account.
func (s *AdminStore) Create(ctx context.Context, admin *models.Admin) error {
	admin.CreatedAt = time.Now().UTC()
	_, err := s.Collection.InsertOne(ctx, admin)
	return err
}

// FindByAdminID fetches an admin account by its login id.
func (s *AdminStore) FindByAdminID(ctx context.Context, adminID string) (*models.Admin, error) {
	var admin models.Admin
	err := s.Collection.FindOne(ctx, bson.M{"admin_id": adminID}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
