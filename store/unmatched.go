package store

import (
	"context"
	"time"

	"tastepos/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UnmatchedStore is the holding area for payments the matcher could not
// resolve, polled by the operator dashboard.
type UnmatchedStore struct {
	Collection *mongo.Collection
}

// NewUnmatchedStore creates an UnmatchedStore bound to unmatched_payments.
func NewUnmatchedStore(client *mongo.Client) *UnmatchedStore {
	return &UnmatchedStore{Collection: client.Database(DatabaseName).Collection("unmatched_payments")}
}

// Add parks a payment for manual follow-up.
func (s *UnmatchedStore) Add(ctx context.Context, p *models.UnmatchedPayment) error {
	_, err := s.Collection.InsertOne(ctx, p)
	return err
}

// List returns unmatched payments, most recent first. An empty resolution
// filter returns everything.
func (s *UnmatchedStore) List(ctx context.Context, resolution string, limit int64) ([]models.UnmatchedPayment, error) {
	filter := bson.M{}
	if resolution != "" {
		filter["resolution"] = resolution
	}
	if limit <= 0 {
		limit = 100
	}

	cursor, err := s.Collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "received_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []models.UnmatchedPayment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// Resolve transitions a record out of "unmatched" exactly once. The guard on
// the current resolution value makes a second resolution attempt fail with
// ErrAlreadyResolved instead of silently rewriting history.
func (s *UnmatchedStore) Resolve(ctx context.Context, id, resolution, matchedOrderID string) error {
	set := bson.M{
		"resolution":  resolution,
		"resolved_at": time.Now().UTC(),
	}
	if matchedOrderID != "" {
		set["matched_order_id"] = matchedOrderID
	}

	res, err := s.Collection.UpdateOne(ctx,
		bson.M{"id": id, "resolution": models.ResolutionUnmatched},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing record from one already resolved.
		count, err := s.Collection.CountDocuments(ctx, bson.M{"id": id})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrAlreadyResolved
	}
	return nil
}

// ResolveByTransaction closes any open holding record for a transaction id.
// Used when a manual match settles a payment that was previously parked;
// a missing record is fine, the payment may have matched on first delivery.
func (s *UnmatchedStore) ResolveByTransaction(ctx context.Context, transactionID, resolution, matchedOrderID string) error {
	set := bson.M{
		"resolution":  resolution,
		"resolved_at": time.Now().UTC(),
	}
	if matchedOrderID != "" {
		set["matched_order_id"] = matchedOrderID
	}

	_, err := s.Collection.UpdateOne(ctx,
		bson.M{"transaction_id": transactionID, "resolution": models.ResolutionUnmatched},
		bson.M{"$set": set})
	return err
}
