// utils/email.go
package utils

import (
	"fmt"
	"os"

	"tastepos/models"

	"github.com/keighl/postmark"
)

// EmailService sends operator notifications using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes a new EmailService. Returns nil when no
// Postmark token is configured; callers treat a nil service as mail disabled.
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		return nil
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendUnmatchedAlert notifies the operator about a payment that could not be
// matched to any pending order
func (es *EmailService) SendUnmatchedAlert(toEmail string, p models.UnmatchedPayment) error {
	subject := fmt.Sprintf("Unmatched Payment: ₹%.2f - Taste Paradise", p.Amount)
	htmlContent := fmt.Sprintf(
		"<strong>A payment could not be matched to any order.</strong><br>"+
			"Transaction: %s<br>Amount: ₹%.2f<br>Payer: %s<br><br>"+
			"Please resolve it from the unmatched payments screen.",
		p.TransactionID, p.Amount, p.PayerVPA,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendDailySummary mails the end-of-day reconciliation figures
func (es *EmailService) SendDailySummary(toEmail string, stats *models.PaymentStats) error {
	subject := fmt.Sprintf("Daily Payment Summary %s - Taste Paradise", stats.Date)
	htmlContent := fmt.Sprintf(
		"<strong>Payment summary for %s</strong><br><br>"+
			"Orders paid: %d (₹%.2f total)<br>"+
			"Online: %d orders, ₹%.2f<br>"+
			"Cash: %d orders, ₹%.2f<br>"+
			"Webhook payments matched: %d, unmatched: %d<br>",
		stats.Date,
		stats.TotalPaymentsToday, stats.TotalAmount,
		stats.OnlineOrdersCount, stats.TodayOnline,
		stats.CashOrdersCount, stats.TodayCash,
		stats.MatchedPayments, stats.UnmatchedPayments,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
