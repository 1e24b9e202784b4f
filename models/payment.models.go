package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SoundboxWebhookPayload is the provider-shaped notification body. The
// soundbox forwards payer handle, amount and a provider transaction id, but
// no merchant order reference. Some providers send the payer handle as
// "upi_id", others as "payer_vpa"; both are accepted here and normalized.
type SoundboxWebhookPayload struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	UPIID         string  `json:"upi_id"`
	PayerVPA      string  `json:"payer_vpa"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	Provider      string  `json:"provider"`
	Timestamp     string  `json:"timestamp"`
}

// PayerHandle returns whichever payer identifier the provider sent.
func (p *SoundboxWebhookPayload) PayerHandle() string {
	if p.UPIID != "" {
		return p.UPIID
	}
	return p.PayerVPA
}

// PaymentRecord is the payment ledger entry, one per provider transaction id.
// TransactionID carries a unique index; insertion is the sole dedup mechanism
// for webhook redelivery. Matched, OrderID and MatchedAt transition from
// unset to set exactly once, everything else is immutable after insert.
type PaymentRecord struct {
	DBID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID            string             `bson:"id" json:"id"`
	TransactionID string             `bson:"transaction_id" json:"transaction_id"`
	Amount        float64            `bson:"amount" json:"amount"`
	UPIID         string             `bson:"upi_id,omitempty" json:"upi_id,omitempty"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	Status        string             `bson:"status" json:"status"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
	Matched       bool               `bson:"matched" json:"matched"`
	OrderID       string             `bson:"order_id,omitempty" json:"order_id,omitempty"`
	MatchedAt     *time.Time         `bson:"matched_at,omitempty" json:"matched_at,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// Resolution states for an unmatched payment.
const (
	ResolutionUnmatched  = "unmatched"
	ResolutionMatched    = "matched"
	ResolutionRefunded   = "refunded"
	ResolutionMiscIncome = "misc_income"
)

// UnmatchedPayment is a ledger entry the matcher could not resolve, parked
// for manual follow-up. Resolution moves away from "unmatched" at most once.
type UnmatchedPayment struct {
	DBID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID             string             `bson:"id" json:"id"`
	TransactionID  string             `bson:"transaction_id" json:"transaction_id"`
	Amount         float64            `bson:"amount" json:"amount"`
	PayerVPA       string             `bson:"payer_vpa,omitempty" json:"payer_vpa,omitempty"`
	Provider       string             `bson:"provider" json:"provider"`
	Resolution     string             `bson:"resolution" json:"resolution"`
	MatchedOrderID string             `bson:"matched_order_id,omitempty" json:"matched_order_id,omitempty"`
	ReceivedAt     time.Time          `bson:"received_at" json:"received_at"`
	ResolvedAt     *time.Time         `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// PaymentStats is the daily reconciliation summary served to the dashboard
// and mailed out by the end-of-day summary job.
type PaymentStats struct {
	Date               string  `json:"date"`
	TotalPaymentsToday int     `json:"total_payments_today"`
	TotalAmount        float64 `json:"total_amount"`
	MatchedPayments    int     `json:"matched_payments"`
	UnmatchedPayments  int     `json:"unmatched_payments"`
	TodayOnline        float64 `json:"today_online"`
	TodayCash          float64 `json:"today_cash"`
	TodayUnknown       float64 `json:"today_unknown"`
	OnlineOrdersCount  int     `json:"online_orders_count"`
	CashOrdersCount    int     `json:"cash_orders_count"`
	UnknownOrdersCount int     `json:"unknown_orders_count"`
	PendingOrders      []Order `json:"pending_orders"`
}
