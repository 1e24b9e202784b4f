package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"tastepos/models"
	"tastepos/store"
)

// In-memory stores mirroring the Mongo implementations' query and guarded
// update semantics, so the matcher can be exercised without a database.

type mockOrderStore struct {
	mu     sync.Mutex
	orders map[string]*models.Order

	// settleErr forces SettleIfPending to fail when set.
	settleErr error
	// denySettle simulates losing the settlement race.
	denySettle bool
}

func newMockOrderStore(orders ...models.Order) *mockOrderStore {
	m := &mockOrderStore{orders: make(map[string]*models.Order)}
	for i := range orders {
		o := orders[i]
		m.orders[o.OrderID] = &o
	}
	return m
}

func (m *mockOrderStore) FindMatchCandidates(ctx context.Context, q store.MatchQuery) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Order
	for _, o := range m.orders {
		if o.PaymentStatus != models.PaymentStatusPending {
			continue
		}
		if o.Status == models.OrderStatusCancelled {
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

func (m *mockOrderStore) SettleIfPending(ctx context.Context, orderID, transactionID, method string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settleErr != nil {
		return nil, m.settleErr
	}
	if m.denySettle {
		return nil, nil
	}

	o, ok := m.orders[orderID]
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

func (m *mockOrderStore) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockOrderStore) Cancel(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = models.OrderStatusCancelled
	return nil
}

func (m *mockOrderStore) ListPaidBetween(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	return m.listBetween(start, end, true)
}

func (m *mockOrderStore) ListPendingBetween(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	return m.listBetween(start, end, false)
}

func (m *mockOrderStore) listBetween(start, end time.Time, paid bool) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Order
	for _, o := range m.orders {
		isPaid := o.PaymentStatus == models.PaymentStatusPaid
		if isPaid != paid {
			continue
		}
		if o.CreatedAt.Before(start) || o.CreatedAt.After(end) {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type mockPaymentLedger struct {
	mu      sync.Mutex
	records map[string]*models.PaymentRecord
}

func newMockPaymentLedger() *mockPaymentLedger {
	return &mockPaymentLedger{records: make(map[string]*models.PaymentRecord)}
}

func (m *mockPaymentLedger) Record(ctx context.Context, rec *models.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[rec.TransactionID]; ok {
		return store.ErrDuplicateTransaction
	}
	copied := *rec
	m.records[rec.TransactionID] = &copied
	return nil
}

func (m *mockPaymentLedger) MarkMatched(ctx context.Context, transactionID, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[transactionID]
	if !ok || rec.Matched {
		return nil
	}
	now := time.Now().UTC()
	rec.Matched = true
	rec.OrderID = orderID
	rec.MatchedAt = &now
	return nil
}

func (m *mockPaymentLedger) FindByTransactionID(ctx context.Context, transactionID string) (*models.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[transactionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (m *mockPaymentLedger) History(ctx context.Context, f store.HistoryFilter) ([]models.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.PaymentRecord
	for _, rec := range m.records {
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if !f.StartDate.IsZero() && rec.Timestamp.Before(f.StartDate) {
			continue
		}
		if !f.EndDate.IsZero() && rec.Timestamp.After(f.EndDate) {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *mockPaymentLedger) ListBetween(ctx context.Context, start, end time.Time) ([]models.PaymentRecord, error) {
	return m.History(ctx, store.HistoryFilter{StartDate: start, EndDate: end})
}

type mockUnmatchedStore struct {
	mu       sync.Mutex
	payments []*models.UnmatchedPayment
}

func newMockUnmatchedStore() *mockUnmatchedStore {
	return &mockUnmatchedStore{}
}

func (m *mockUnmatchedStore) Add(ctx context.Context, p *models.UnmatchedPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *p
	m.payments = append(m.payments, &copied)
	return nil
}

func (m *mockUnmatchedStore) List(ctx context.Context, resolution string, limit int64) ([]models.UnmatchedPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.UnmatchedPayment
	for _, p := range m.payments {
		if resolution != "" && p.Resolution != resolution {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	return out, nil
}

func (m *mockUnmatchedStore) Resolve(ctx context.Context, id, resolution, matchedOrderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.payments {
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

func (m *mockUnmatchedStore) ResolveByTransaction(ctx context.Context, transactionID, resolution, matchedOrderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.payments {
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

type mockSettingsStore struct {
	settings *models.MatchingSettings
}

func (m *mockSettingsStore) Get(ctx context.Context) (*models.MatchingSettings, error) {
	if m.settings == nil {
		return models.DefaultMatchingSettings(), nil
	}
	return m.settings, nil
}
