package store

import (
	"context"
	"errors"
	"time"

	"tastepos/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryFilter narrows the payment history listing.
type HistoryFilter struct {
	Status    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int64
}

// PaymentLedger is the append-only record of every inbound payment
// notification, keyed by provider transaction id.
type PaymentLedger struct {
	Collection *mongo.Collection
}

// NewPaymentLedger creates a PaymentLedger bound to the payments collection.
func NewPaymentLedger(client *mongo.Client) *PaymentLedger {
	return &PaymentLedger{Collection: client.Database(DatabaseName).Collection("payments")}
}

// Record inserts a new ledger entry. The unique index on transaction_id
// turns a concurrent redelivery into a duplicate-key error, reported as
// ErrDuplicateTransaction; the existing entry is never touched.
func (l *PaymentLedger) Record(ctx context.Context, rec *models.PaymentRecord) error {
	_, err := l.Collection.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateTransaction
	}
	return err
}

// MarkMatched links a ledger entry to an order. One-way: an entry that is
// already matched keeps its original order_id.
func (l *PaymentLedger) MarkMatched(ctx context.Context, transactionID, orderID string) error {
	// A zero match count means the entry is missing or already matched;
	// both are no-ops for this one-way transition.
	_, err := l.Collection.UpdateOne(ctx,
		bson.M{"transaction_id": transactionID, "matched": false},
		bson.M{"$set": bson.M{
			"matched":    true,
			"order_id":   orderID,
			"matched_at": time.Now().UTC(),
		}})
	return err
}

// FindByTransactionID fetches a single ledger entry.
func (l *PaymentLedger) FindByTransactionID(ctx context.Context, transactionID string) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	err := l.Collection.FindOne(ctx, bson.M{"transaction_id": transactionID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// History lists ledger entries, most recent first.
func (l *PaymentLedger) History(ctx context.Context, f HistoryFilter) ([]models.PaymentRecord, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	timeRange := bson.M{}
	if !f.StartDate.IsZero() {
		timeRange["$gte"] = f.StartDate
	}
	if !f.EndDate.IsZero() {
		timeRange["$lte"] = f.EndDate
	}
	if len(timeRange) > 0 {
		filter["timestamp"] = timeRange
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	cursor, err := l.Collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.PaymentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListBetween returns every ledger entry received inside [start, end].
func (l *PaymentLedger) ListBetween(ctx context.Context, start, end time.Time) ([]models.PaymentRecord, error) {
	return l.History(ctx, HistoryFilter{StartDate: start, EndDate: end, Limit: 1000})
}
