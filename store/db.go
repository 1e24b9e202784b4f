package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatabaseName is the POS database all stores operate on.
const DatabaseName = "taste_paradise"

// EnsureIndexes creates the indexes the reconciliation core depends on.
// The unique index on payments.transaction_id is load-bearing: it is the
// only dedup mechanism for concurrently redelivered webhooks.
func EnsureIndexes(ctx context.Context, client *mongo.Client) error {
	db := client.Database(DatabaseName)

	_, err := db.Collection("payments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transaction_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "payment_status", Value: 1},
			{Key: "final_amount", Value: 1},
			{Key: "created_at", Value: 1},
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("unmatched_payments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "resolution", Value: 1}, {Key: "received_at", Value: -1}},
	})
	return err
}

// Ping verifies the database connection, used by the health endpoint.
func Ping(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return client.Ping(ctx, nil)
}
