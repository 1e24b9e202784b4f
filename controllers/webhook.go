// controllers/webhook.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"tastepos/models"
	"tastepos/services"
	"tastepos/store"

	"github.com/google/uuid"
)

// Matcher settles a recorded payment against pending orders.
type Matcher interface {
	Match(ctx context.Context, rec *models.PaymentRecord) (*models.Order, error)
}

// WebhookController receives payment notifications from the soundbox
// provider, records them in the ledger and hands them to the matcher.
type WebhookController struct {
	Ledger  services.PaymentLedger
	Matcher Matcher
}

// NewWebhookController creates a new WebhookController
func NewWebhookController(ledger services.PaymentLedger, matcher Matcher) *WebhookController {
	return &WebhookController{Ledger: ledger, Matcher: matcher}
}

// HandleSoundboxWebhook receives a payment notification from the provider.
// Redelivery of an already recorded transaction id returns "duplicate"
// without touching the matcher; a payment with no matching order is still a
// success to the provider, since a non-2xx would just trigger more retries.
func (wc *WebhookController) HandleSoundboxWebhook(w http.ResponseWriter, r *http.Request) {
	var payload models.SoundboxWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status":  "error",
			"message": "Invalid request body",
		})
		return
	}

	wc.processPayment(w, r, payload)
}

// TestWebhook simulates a provider notification, for wiring checks from the
// operator UI.
func (wc *WebhookController) TestWebhook(w http.ResponseWriter, r *http.Request) {
	payload := models.SoundboxWebhookPayload{
		TransactionID: fmt.Sprintf("TEST%s", time.Now().Format("20060102150405")),
		Amount:        250.0,
		UPIID:         "customer@paytm",
		PaymentMethod: "upi",
		Status:        "success",
	}

	wc.processPayment(w, r, payload)
}

func (wc *WebhookController) processPayment(w http.ResponseWriter, r *http.Request, payload models.SoundboxWebhookPayload) {
	if payload.TransactionID == "" || payload.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status":  "error",
			"message": "Invalid payment data",
		})
		return
	}

	log.Printf("Payment webhook received: txn=%s amount=%.2f", payload.TransactionID, payload.Amount)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	method := payload.PaymentMethod
	if method == "" {
		method = "upi"
	}
	status := payload.Status
	if status == "" {
		status = "success"
	}

	rec := &models.PaymentRecord{
		ID:            uuid.NewString(),
		TransactionID: payload.TransactionID,
		Amount:        payload.Amount,
		UPIID:         payload.PayerHandle(),
		PaymentMethod: method,
		Status:        status,
		Timestamp:     now,
		CreatedAt:     now,
	}

	err := wc.Ledger.Record(ctx, rec)
	if errors.Is(err, store.ErrDuplicateTransaction) {
		log.Printf("Duplicate payment webhook: %s", payload.TransactionID)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "duplicate",
			"message": "Payment already processed",
			"matched": false,
		})
		return
	}
	if err != nil {
		log.Printf("Failed to record payment %s: %v", payload.TransactionID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status":  "error",
			"message": "Failed to record payment",
		})
		return
	}

	order, err := wc.Matcher.Match(ctx, rec)
	if err != nil {
		// The ledger write is committed and stays committed; the provider
		// will retry and hit the duplicate path, so no settlement can
		// happen twice.
		log.Printf("Failed to match payment %s: %v", payload.TransactionID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status":  "error",
			"message": "Failed to process payment",
		})
		return
	}

	if order != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "success",
			"message":  "Payment received and matched",
			"order_id": order.OrderID,
			"matched":  true,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Payment received, no matching order",
		"matched": false,
	})
}
