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

// ConfigStore holds the singleton soundbox device configuration.
type ConfigStore struct {
	Collection *mongo.Collection
}

// NewConfigStore creates a ConfigStore bound to soundbox_configs.
func NewConfigStore(client *mongo.Client) *ConfigStore {
	return &ConfigStore{Collection: client.Database(DatabaseName).Collection("soundbox_configs")}
}

// Get returns the current configuration.
func (s *ConfigStore) Get(ctx context.Context) (*models.SoundboxConfig, error) {
	var config models.SoundboxConfig
	err := s.Collection.FindOne(ctx, bson.M{}).Decode(&config)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Upsert creates the configuration or overwrites the existing one; the POS
// supports a single soundbox device.
func (s *ConfigStore) Upsert(ctx context.Context, config *models.SoundboxConfig) (*models.SoundboxConfig, error) {
	now := time.Now().UTC()
	config.UpdatedAt = now

	existing, err := s.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		config.ID = uuid.NewString()
		config.CreatedAt = now
		config.IsActive = true
		if _, err := s.Collection.InsertOne(ctx, config); err != nil {
			return nil, err
		}
		return config, nil
	}
	if err != nil {
		return nil, err
	}

	config.ID = existing.ID
	config.CreatedAt = existing.CreatedAt
	config.DBID = existing.DBID
	config.IsActive = true
	if _, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": existing.DBID}, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Deactivate disconnects the soundbox without losing its configuration.
func (s *ConfigStore) Deactivate(ctx context.Context) (*models.SoundboxConfig, error) {
	existing, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	_, err = s.Collection.UpdateOne(ctx, bson.M{"_id": existing.DBID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}})
	if err != nil {
		return nil, err
	}
	existing.IsActive = false
	return existing, nil
}

// RecordPing stamps last_ping, used by the connection test endpoint.
func (s *ConfigStore) RecordPing(ctx context.Context) (*models.SoundboxConfig, error) {
	existing, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = s.Collection.UpdateOne(ctx, bson.M{"_id": existing.DBID},
		bson.M{"$set": bson.M{"last_ping": now}})
	if err != nil {
		return nil, err
	}
	existing.LastPing = &now
	return existing, nil
}
