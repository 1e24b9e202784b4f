// services/matcher.go
package services

import (
	"context"
	"log"
	"time"

	"tastepos/models"
	"tastepos/store"

	"github.com/google/uuid"
)

// AmountTolerance is the absolute band around an order total a payment may
// land in and still match. Displayed and billed totals can differ by rounding,
// so an exact-amount comparison would miss legitimate payments.
const AmountTolerance = 2.0

// PaymentMatcher settles incoming payments against pending orders. A
// soundbox notification carries no order reference, so matching is by amount
// with an oldest-first tie-break, and anything ambiguous is parked for a
// human rather than guessed.
type PaymentMatcher struct {
	Orders    OrderStore
	Ledger    PaymentLedger
	Unmatched UnmatchedStore
	Settings  SettingsStore
	Notifier  *AlertNotifier
}

// NewPaymentMatcher wires a matcher with its stores. Notifier may be nil.
func NewPaymentMatcher(orders OrderStore, ledger PaymentLedger, unmatched UnmatchedStore, settings SettingsStore, notifier *AlertNotifier) *PaymentMatcher {
	return &PaymentMatcher{
		Orders:    orders,
		Ledger:    ledger,
		Unmatched: unmatched,
		Settings:  settings,
		Notifier:  notifier,
	}
}

// Match tries to settle the recorded payment against exactly one pending
// order. Returns the settled order, or nil when the payment was parked as
// unmatched. A nil order with a nil error is the expected steady-state
// outcome for ambiguous payments, not a failure.
func (m *PaymentMatcher) Match(ctx context.Context, rec *models.PaymentRecord) (*models.Order, error) {
	settings, err := m.Settings.Get(ctx)
	if err != nil {
		log.Printf("Failed to load matching settings, using defaults: %v", err)
		settings = models.DefaultMatchingSettings()
	}

	if !settings.AutoMarkPaid || settings.MatchingAlgorithm == models.AlgorithmManual {
		return nil, m.park(ctx, rec)
	}

	window := time.Duration(settings.PaymentTimeoutMinutes) * time.Minute
	q := store.MatchQuery{
		MinAmount:     rec.Amount - AmountTolerance,
		MaxAmount:     rec.Amount + AmountTolerance,
		CreatedAfter:  time.Now().UTC().Add(-window),
		SortAscending: settings.MatchingAlgorithm != models.AlgorithmAmountTime,
	}

	candidates, err := m.Orders.FindMatchCandidates(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		log.Printf("No matching pending orders for amount %.2f (txn %s)", rec.Amount, rec.TransactionID)
		return nil, m.park(ctx, rec)
	}

	// Settle against the first candidate only. The guarded update is the
	// sole protection against a concurrent settlement; losing it means the
	// order was paid some other way in the meantime, and spraying the
	// payment across the remaining candidates would just guess wrong.
	target := candidates[0]
	settled, err := m.Orders.SettleIfPending(ctx, target.OrderID, rec.TransactionID, models.PaymentMethodOnline)
	if err != nil {
		return nil, err
	}
	if settled == nil {
		log.Printf("Lost settlement race for order %s (txn %s)", target.OrderID, rec.TransactionID)
		return nil, m.park(ctx, rec)
	}

	if err := m.Ledger.MarkMatched(ctx, rec.TransactionID, settled.OrderID); err != nil {
		// The order is settled; a failed ledger link is repairable from
		// the order's transaction_id, so log instead of unwinding.
		log.Printf("Failed to mark ledger entry %s matched: %v", rec.TransactionID, err)
	}

	log.Printf("Payment %s matched to order %s (%.2f)", rec.TransactionID, settled.OrderID, rec.Amount)
	return settled, nil
}

// park records the payment in the unmatched holding area for manual action.
func (m *PaymentMatcher) park(ctx context.Context, rec *models.PaymentRecord) error {
	p := &models.UnmatchedPayment{
		ID:            uuid.NewString(),
		TransactionID: rec.TransactionID,
		Amount:        rec.Amount,
		PayerVPA:      rec.UPIID,
		Provider:      "soundbox",
		Resolution:    models.ResolutionUnmatched,
		ReceivedAt:    rec.CreatedAt,
		CreatedAt:     time.Now().UTC(),
	}
	if err := m.Unmatched.Add(ctx, p); err != nil {
		return err
	}

	if m.Notifier != nil {
		go m.Notifier.UnmatchedAlert(*p)
	}
	return nil
}
