// controllers/payments.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"tastepos/models"
	"tastepos/services"
	"tastepos/store"

	"github.com/gorilla/mux"
)

// PaymentsController serves the operator-facing reconciliation endpoints:
// ledger history, the unmatched holding area, manual matching, cash
// settlement and daily stats.
type PaymentsController struct {
	Ledger    services.PaymentLedger
	Orders    services.OrderStore
	Unmatched services.UnmatchedStore
}

// NewPaymentsController creates a new PaymentsController
func NewPaymentsController(ledger services.PaymentLedger, orders services.OrderStore, unmatched services.UnmatchedStore) *PaymentsController {
	return &PaymentsController{Ledger: ledger, Orders: orders, Unmatched: unmatched}
}

// GetPaymentHistory lists ledger entries with optional date/status filters
func (pc *PaymentsController) GetPaymentHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := store.HistoryFilter{
		Status: r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"status": "error", "message": "Invalid start_date",
			})
			return
		}
		filter.StartDate = t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"status": "error", "message": "Invalid end_date",
			})
			return
		}
		filter.EndDate = t
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.Limit = n
		}
	}

	payments, err := pc.Ledger.History(ctx, filter)
	if err != nil {
		log.Printf("Failed to fetch payment history: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to fetch payment history",
		})
		return
	}
	if payments == nil {
		payments = []models.PaymentRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payments": payments,
		"count":    len(payments),
	})
}

// GetUnmatchedPayments lists the holding area, most recent first
func (pc *PaymentsController) GetUnmatchedPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	resolution := r.URL.Query().Get("resolution")

	payments, err := pc.Unmatched.List(ctx, resolution, 100)
	if err != nil {
		log.Printf("Failed to fetch unmatched payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to fetch unmatched payments",
		})
		return
	}
	if payments == nil {
		payments = []models.UnmatchedPayment{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"unmatched_payments": payments,
		"count":              len(payments),
	})
}

// ManualMatch force-links a ledger entry to a specific order. It runs the
// same guarded settlement as the automatic path, so it can never pay an
// order twice even when racing a webhook delivery.
func (pc *PaymentsController) ManualMatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	transactionID := vars["transactionId"]
	orderID := vars["orderId"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := pc.Ledger.FindByTransactionID(ctx, transactionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"status": "error", "message": "Payment not found",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to look up payment",
		})
		return
	}

	if _, err := pc.Orders.FindByOrderID(ctx, orderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"status": "error", "message": "Order not found",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to look up order",
		})
		return
	}

	settled, err := pc.Orders.SettleIfPending(ctx, orderID, transactionID, models.PaymentMethodOnline)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to settle order",
		})
		return
	}
	if settled == nil {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"status": "error", "message": "Order is no longer pending payment",
		})
		return
	}

	if err := pc.Ledger.MarkMatched(ctx, transactionID, orderID); err != nil {
		log.Printf("Failed to mark ledger entry %s matched: %v", transactionID, err)
	}
	if err := pc.Unmatched.ResolveByTransaction(ctx, transactionID, models.ResolutionMatched, orderID); err != nil {
		log.Printf("Failed to close unmatched record for %s: %v", transactionID, err)
	}

	log.Printf("Manually matched payment %s to order %s", transactionID, orderID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Payment matched successfully",
	})
}

// ResolveUnmatched transitions a holding-area record to a terminal
// resolution, exactly once
func (pc *PaymentsController) ResolveUnmatched(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var body struct {
		Resolution string `json:"resolution"`
		OrderID    string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "Invalid request body",
		})
		return
	}

	switch body.Resolution {
	case models.ResolutionMatched, models.ResolutionRefunded, models.ResolutionMiscIncome:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status": "error", "message": "Invalid resolution",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := pc.Unmatched.Resolve(ctx, id, body.Resolution, body.OrderID)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"status": "error", "message": "Unmatched payment not found",
		})
		return
	}
	if errors.Is(err, store.ErrAlreadyResolved) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"status": "error", "message": "Payment already resolved",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to resolve payment",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Payment resolved",
	})
}

// MarkCash settles an order as paid in cash, guarded the same way as the
// online path
func (pc *PaymentsController) MarkCash(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID := vars["orderId"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	settled, err := pc.Orders.SettleIfPending(ctx, orderID, "", models.PaymentMethodCash)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to settle order",
		})
		return
	}
	if settled == nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"status": "error", "message": "Order not found or already paid",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"message":  "Order marked as cash payment",
		"order_id": orderID,
	})
}

// CancelOrder moves an order to cancelled so the matcher ignores it
func (pc *PaymentsController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID := vars["orderId"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := pc.Orders.Cancel(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"status": "error", "message": "Order not found",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to cancel order",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"message":  "Order cancelled successfully",
		"order_id": orderID,
	})
}

// GetPaymentStats returns the daily reconciliation summary
func (pc *PaymentsController) GetPaymentStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	date := time.Now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"status": "error", "message": "Invalid date",
			})
			return
		}
		date = t
	}

	stats, err := services.ComputeDailyStats(ctx, pc.Orders, pc.Ledger, date)
	if err != nil {
		log.Printf("Failed to compute payment stats: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status": "error", "message": "Failed to compute payment stats",
		})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// parseDate accepts either a full RFC 3339 timestamp or a bare date.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
