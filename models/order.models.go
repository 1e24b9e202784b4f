package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment status values for an order.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Payment methods recorded on a settled order.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

// Order lifecycle states touched by the reconciliation flow.
const (
	OrderStatusCancelled = "cancelled"
	OrderStatusServed    = "served"
)

// Order represents a restaurant order as stored in the orders collection.
// FinalAmount is fixed at creation time; the reconciliation flow only ever
// flips PaymentStatus from pending to paid and records how it was paid.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID       string             `bson:"order_id" json:"order_id"`
	TableNumber   int                `bson:"table_number,omitempty" json:"table_number,omitempty"`
	FinalAmount   float64            `bson:"final_amount" json:"final_amount"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status"`
	PaymentMethod string             `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	Status        string             `bson:"status" json:"status"`
	TransactionID string             `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	PaidAt        *time.Time         `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}
