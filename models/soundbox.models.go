package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Soundbox providers supported by the integration.
const (
	ProviderPaytm   = "paytm"
	ProviderPhonePe = "phonepe"
	ProviderGPay    = "gpay"
	ProviderOther   = "other"
)

// SoundboxConfig is the singleton merchant-side device configuration.
type SoundboxConfig struct {
	DBID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID            string             `bson:"id" json:"id"`
	Provider      string             `bson:"provider" json:"provider"`
	MerchantUPIID string             `bson:"merchant_upi_id" json:"merchant_upi_id"`
	MerchantName  string             `bson:"merchant_name" json:"merchant_name"`
	APIKey        string             `bson:"api_key,omitempty" json:"api_key,omitempty"`
	APISecret     string             `bson:"api_secret,omitempty" json:"-"`
	WebhookURL    string             `bson:"webhook_url,omitempty" json:"webhook_url,omitempty"`
	IsActive      bool               `bson:"is_active" json:"is_active"`
	LastPing      *time.Time         `bson:"last_ping,omitempty" json:"last_ping,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// Matching algorithms.
const (
	AlgorithmFIFO       = "fifo"
	AlgorithmAmountTime = "amount_time"
	AlgorithmManual     = "manual"
)

// MatchingSettings is the singleton tuning document for the payment matcher.
type MatchingSettings struct {
	DBID                  primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID                    string             `bson:"id" json:"id"`
	MatchingAlgorithm     string             `bson:"matching_algorithm" json:"matching_algorithm"`
	PaymentTimeoutMinutes int                `bson:"payment_timeout_minutes" json:"payment_timeout_minutes"`
	AutoMarkPaid          bool               `bson:"auto_mark_paid" json:"auto_mark_paid"`
	SendKOTAfterPayment   bool               `bson:"send_kot_after_payment" json:"send_kot_after_payment"`
	PlayNotificationSound bool               `bson:"play_notification_sound" json:"play_notification_sound"`
	AutoPrintBill         bool               `bson:"auto_print_bill" json:"auto_print_bill"`
	ShowUnmatchedPopup    bool               `bson:"show_unmatched_popup" json:"show_unmatched_popup"`
	EmailDailySummary     bool               `bson:"email_daily_summary" json:"email_daily_summary"`
	EmailAddress          string             `bson:"email_address,omitempty" json:"email_address,omitempty"`
	SMSUnmatchedAlert     bool               `bson:"sms_unmatched_alert" json:"sms_unmatched_alert"`
	PhoneNumber           string             `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	CreatedAt             time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updated_at"`
}

// DefaultMatchingSettings are used until an operator saves their own.
func DefaultMatchingSettings() *MatchingSettings {
	return &MatchingSettings{
		MatchingAlgorithm:     AlgorithmFIFO,
		PaymentTimeoutMinutes: 15,
		AutoMarkPaid:          true,
		SendKOTAfterPayment:   true,
		PlayNotificationSound: true,
		AutoPrintBill:         true,
		ShowUnmatchedPopup:    true,
	}
}
