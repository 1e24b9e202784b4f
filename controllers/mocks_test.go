package controllers

import (
	"context"
	"sort"
	"sync"
	"time"

	"tastepos/models"
	"tastepos/store"
)

// In-memory stores with the same guarded-update semantics as the Mongo
// implementations, shared by the endpoint tests.

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func newFakeOrderStore(orders ...models.Order) *fakeOrderStore {
	f := &fakeOrderStore{orders: make(map[string]*models.Order)}
	for i := range orders {
		o := orders[i]
		f.orders[o.OrderID] = &o
	}
	return f
}

func (f *fakeOrderStore) FindMatchCandidates(ctx context.Context, q store.MatchQuery) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Order
	for _, o := range f.orders {
		if o.PaymentStatus != models.PaymentStatusPending || o.Status == models.OrderStatusCancelled {
			continue
		}
		if o.FinalAmount < q.MinAmount || o.FinalAmount > q.MaxAmount {
			continue
		}
		if !q.CreatedAfter.IsZero() && o.CreatedAt.Before(q.CreatedAfter) {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool {
		if q.SortAscending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeOrderStore) SettleIfPending(ctx context.Context, orderID, transactionID, method string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[orderID]
	if !ok || o.PaymentStatus != models.PaymentStatusPending {
		return nil, nil
	}

	now := time.Now().UTC()
	o.PaymentStatus = models.PaymentStatusPaid
	o.Status = models.OrderStatusServed
	o.PaidAt = &now
	o.UpdatedAt = now
	if method != "" {
		o.PaymentMethod = method
	}
	if transactionID != "" {
		o.TransactionID = transactionID
	}
	settled := *o
	return &settled, nil
}

func (f *fakeOrderStore) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderStore) Cancel(ctx context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = models.OrderStatusCancelled
	return nil
}

func (f *fakeOrderStore) ListPaidBetween(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	return f.list(start, end, true)
}

func (f *fakeOrderStore) ListPendingBetween(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	return f.list(start, end, false)
}

func (f *fakeOrderStore) list(start, end time.Time, paid bool) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Order
	for _, o := range f.orders {
		if (o.PaymentStatus == models.PaymentStatusPaid) != paid {
			continue
		}
		if o.CreatedAt.Before(start) || o.CreatedAt.After(end) {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

type fakePaymentLedger struct {
	mu      sync.Mutex
	records map[string]*models.PaymentRecord
}

func newFakePaymentLedger() *fakePaymentLedger {
	return &fakePaymentLedger{records: make(map[string]*models.PaymentRecord)}
}

func (f *fakePaymentLedger) Record(ctx context.Context, rec *models.PaymentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.records[rec.TransactionID]; ok {
		return store.ErrDuplicateTransaction
	}
	copied := *rec
	f.records[rec.TransactionID] = &copied
	return nil
}

func (f *fakePaymentLedger) MarkMatched(ctx context.Context, transactionID, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[transactionID]
	if !ok || rec.Matched {
		return nil
	}
	now := time.Now().UTC()
	rec.Matched = true
	rec.OrderID = orderID
	rec.MatchedAt = &now
	return nil
}

func (f *fakePaymentLedger) FindByTransactionID(ctx context.Context, transactionID string) (*models.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[transactionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (f *fakePaymentLedger) History(ctx context.Context, filter store.HistoryFilter) ([]models.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.PaymentRecord
	for _, rec := range f.records {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (f *fakePaymentLedger) ListBetween(ctx context.Context, start, end time.Time) ([]models.PaymentRecord, error) {
	return f.History(ctx, store.HistoryFilter{StartDate: start, EndDate: end})
}

type fakeUnmatchedStore struct {
	mu       sync.Mutex
	payments []*models.UnmatchedPayment
}

func newFakeUnmatchedStore(payments ...models.UnmatchedPayment) *fakeUnmatchedStore {
	f := &fakeUnmatchedStore{}
	for i := range payments {
		p := payments[i]
		f.payments = append(f.payments, &p)
	}
	return f
}

func (f *fakeUnmatchedStore) Add(ctx context.Context, p *models.UnmatchedPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := *p
	f.payments = append(f.payments, &copied)
	return nil
}

func (f *fakeUnmatchedStore) List(ctx context.Context, resolution string, limit int64) ([]models.UnmatchedPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.UnmatchedPayment
	for _, p := range f.payments {
		if resolution != "" && p.Resolution != resolution {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	return out, nil
}

func (f *fakeUnmatchedStore) Resolve(ctx context.Context, id, resolution, matchedOrderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.payments {
		if p.ID != id {
			continue
		}
		if p.Resolution != models.ResolutionUnmatched {
			return store.ErrAlreadyResolved
		}
		now := time.Now().UTC()
		p.Resolution = resolution
		p.ResolvedAt = &now
		if matchedOrderID != "" {
			p.MatchedOrderID = matchedOrderID
		}
		return nil
	}
	return store.ErrNotFound
}

func (f *fakeUnmatchedStore) ResolveByTransaction(ctx context.Context, transactionID, resolution, matchedOrderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.payments {
		if p.TransactionID != transactionID || p.Resolution != models.ResolutionUnmatched {
			continue
		}
		now := time.Now().UTC()
		p.Resolution = resolution
		p.ResolvedAt = &now
		if matchedOrderID != "" {
			p.MatchedOrderID = matchedOrderID
		}
	}
	return nil
}

type fakeSettingsStore struct {
	settings *models.MatchingSettings
}

func (f *fakeSettingsStore) Get(ctx context.Context) (*models.MatchingSettings, error) {
	if f.settings == nil {
		return models.DefaultMatchingSettings(), nil
	}
	return f.settings, nil
}
