package services

import (
	"context"
	"log"
	"time"

	"tastepos/models"
	"tastepos/utils"
)

// AlertNotifier sends operator emails about reconciliation events, honoring
// the notification flags in the matching settings. All sends are best
// effort; a mail failure never affects payment processing.
type AlertNotifier struct {
	Email    *utils.EmailService
	Settings SettingsStore
	Orders   OrderStore
	Ledger   PaymentLedger
}

// NewAlertNotifier wires a notifier. Email may be nil when Postmark is not
// configured, in which case every notification is a no-op.
func NewAlertNotifier(email *utils.EmailService, settings SettingsStore, orders OrderStore, ledger PaymentLedger) *AlertNotifier {
	return &AlertNotifier{Email: email, Settings: settings, Orders: orders, Ledger: ledger}
}

// UnmatchedAlert mails the operator about a payment that needs manual
// resolution. Runs detached from the webhook request.
func (n *AlertNotifier) UnmatchedAlert(p models.UnmatchedPayment) {
	if n.Email == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := n.Settings.Get(ctx)
	if err != nil {
		log.Printf("Failed to load settings for unmatched alert: %v", err)
		return
	}
	if settings.EmailAddress == "" {
		return
	}

	if err := n.Email.SendUnmatchedAlert(settings.EmailAddress, p); err != nil {
		log.Printf("Failed to send unmatched payment alert for %s: %v", p.TransactionID, err)
	}
}

// SendDailySummary mails the day's reconciliation figures. Scheduled from
// main via cron at end of day.
func (n *AlertNotifier) SendDailySummary() {
	if n.Email == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	settings, err := n.Settings.Get(ctx)
	if err != nil {
		log.Printf("Failed to load settings for daily summary: %v", err)
		return
	}
	if !settings.EmailDailySummary || settings.EmailAddress == "" {
		return
	}

	stats, err := ComputeDailyStats(ctx, n.Orders, n.Ledger, time.Now().UTC())
	if err != nil {
		log.Printf("Failed to compute daily summary: %v", err)
		return
	}

	if err := n.Email.SendDailySummary(settings.EmailAddress, stats); err != nil {
		log.Printf("Failed to send daily summary: %v", err)
	}
}
