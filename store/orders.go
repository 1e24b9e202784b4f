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

// MatchQuery describes the candidate search for an incoming payment:
// pending, not cancelled, total within [MinAmount, MaxAmount] inclusive,
// created after the cutoff, sorted by age.
type MatchQuery struct {
	MinAmount     float64
	MaxAmount     float64
	CreatedAfter  time.Time
	SortAscending bool
	Limit         int64
}

// OrderStore reads and conditionally settles orders. The orders collection
// itself is owned by the ordering side of the POS; this store only performs
// the narrow reads and guarded writes reconciliation needs.
type OrderStore struct {
	Collection *mongo.Collection
}

// NewOrderStore creates an OrderStore bound to the orders collection.
func NewOrderStore(client *mongo.Client) *OrderStore {
	return &OrderStore{Collection: client.Database(DatabaseName).Collection("orders")}
}

// FindMatchCandidates returns settlement candidates for a payment amount.
func (s *OrderStore) FindMatchCandidates(ctx context.Context, q MatchQuery) ([]models.Order, error) {
	filter := bson.M{
		"payment_status": models.PaymentStatusPending,
		"status":         bson.M{"$ne": models.OrderStatusCancelled},
		"final_amount":   bson.M{"$gte": q.MinAmount, "$lte": q.MaxAmount},
	}
	if !q.CreatedAfter.IsZero() {
		filter["created_at"] = bson.M{"$gte": q.CreatedAfter}
	}

	sortDir := 1
	if !q.SortAscending {
		sortDir = -1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: sortDir}}).
		SetLimit(limit)

	cursor, err := s.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SettleIfPending marks an order paid in a single guarded update. The filter
// condition on payment_status is the only thing standing between two
// concurrent settlements of the same order, so it must stay inside the one
// FindOneAndUpdate and never become a read followed by a write. Returns the
// settled order, or (nil, nil) when the order is missing or no longer
// pending, i.e. the caller lost the race.
func (s *OrderStore) SettleIfPending(ctx context.Context, orderID, transactionID, method string) (*models.Order, error) {
	now := time.Now().UTC()
	set := bson.M{
		"payment_status": models.PaymentStatusPaid,
		"status":         models.OrderStatusServed,
		"paid_at":        now,
		"updated_at":     now,
	}
	if method != "" {
		set["payment_method"] = method
	}
	if transactionID != "" {
		set["transaction_id"] = transactionID
	}

	filter := bson.M{
		"order_id":       orderID,
		"payment_status": models.PaymentStatusPending,
	}

	var order models.Order
	err := s.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByOrderID looks an order up by its human-facing id.
func (s *OrderStore) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.Collection.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel moves an order to cancelled so the matcher stops considering it.
// Cancelled orders are kept, not deleted, so ledger links stay resolvable.
func (s *OrderStore) Cancel(ctx context.Context, orderID string) error {
	res, err := s.Collection.UpdateOne(ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{
			"status":     models.OrderStatusCancelled,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPaidBetween returns paid orders created inside [start, end].
func (s *OrderStore) ListPaidBetween(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	return s.listBetween(ctx, bson.M{
		"payment_status": models.PaymentStatusPaid,
		"created_at":     bson.M{"$gte": start, "$lte": end},
	})
}

// ListPendingBetween returns not-yet-paid orders created inside [start, end],
// used for the manual-match dropdown and the daily summary.
func (s *OrderStore) ListPendingBetween(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	return s.listBetween(ctx, bson.M{
		"payment_status": bson.M{"$ne": models.PaymentStatusPaid},
		"created_at":     bson.M{"$gte": start, "$lte": end},
	})
}

func (s *OrderStore) listBetween(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := s.Collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(1000))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
