package services

import (
	"context"
	"time"

	"tastepos/models"
	"tastepos/store"
)

// The store surface the reconciliation flow consumes. Declared here so the
// matcher and the payment controllers can be exercised against in-memory
// stores in tests; store.OrderStore and friends are the Mongo implementations.

// OrderStore reads pending orders and performs guarded settlement writes.
type OrderStore interface {
	FindMatchCandidates(ctx context.Context, q store.MatchQuery) ([]models.Order, error)
	SettleIfPending(ctx context.Context, orderID, transactionID, method string) (*models.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	Cancel(ctx context.Context, orderID string) error
	ListPaidBetween(ctx context.Context, start, end time.Time) ([]models.Order, error)
	ListPendingBetween(ctx context.Context, start, end time.Time) ([]models.Order, error)
}

// PaymentLedger records inbound payment notifications.
type PaymentLedger interface {
	Record(ctx context.Context, rec *models.PaymentRecord) error
	MarkMatched(ctx context.Context, transactionID, orderID string) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.PaymentRecord, error)
	History(ctx context.Context, f store.HistoryFilter) ([]models.PaymentRecord, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]models.PaymentRecord, error)
}

// UnmatchedStore parks payments awaiting manual resolution.
type UnmatchedStore interface {
	Add(ctx context.Context, p *models.UnmatchedPayment) error
	List(ctx context.Context, resolution string, limit int64) ([]models.UnmatchedPayment, error)
	Resolve(ctx context.Context, id, resolution, matchedOrderID string) error
	ResolveByTransaction(ctx context.Context, transactionID, resolution, matchedOrderID string) error
}

// SettingsStore supplies the matcher tuning document.
type SettingsStore interface {
	Get(ctx context.Context) (*models.MatchingSettings, error)
}
