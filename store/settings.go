package store

import (
	"context"
	"errors"
	"time"

	"tastepos/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SettingsStore holds the singleton matching settings document.
type SettingsStore struct {
	Collection *mongo.Collection
}

// NewSettingsStore creates a SettingsStore bound to matching_settings.
func NewSettingsStore(client *mongo.Client) *SettingsStore {
	return &SettingsStore{Collection: client.Database(DatabaseName).Collection("matching_settings")}
}

// Get returns the saved settings, or the defaults when nothing was saved yet.
func (s *SettingsStore) Get(ctx context.Context) (*models.MatchingSettings, error) {
	var settings models.MatchingSettings
	err := s.Collection.FindOne(ctx, bson.M{}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DefaultMatchingSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update replaces the singleton settings document, creating it on first save.
func (s *SettingsStore) Update(ctx context.Context, settings *models.MatchingSettings) (*models.MatchingSettings, error) {
	now := time.Now().UTC()
	settings.UpdatedAt = now

	var existing models.MatchingSettings
	err := s.Collection.FindOne(ctx, bson.M{}).Decode(&existing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		settings.ID = uuid.NewString()
		settings.CreatedAt = now
		if _, err := s.Collection.InsertOne(ctx, settings); err != nil {
			return nil, err
		}
		return settings, nil
	}
	if err != nil {
		return nil, err
	}

	settings.ID = existing.ID
	settings.CreatedAt = existing.CreatedAt
	settings.DBID = existing.DBID
	if _, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": existing.DBID}, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
