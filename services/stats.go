package services

import (
	"context"
	"time"

	"tastepos/models"
)

// ComputeDailyStats aggregates reconciliation figures for one calendar day:
// paid-order totals split by payment method, matched/unmatched webhook
// counts, and the day's still-pending orders for the manual-match dropdown.
func ComputeDailyStats(ctx context.Context, orders OrderStore, ledger PaymentLedger, date time.Time) (*models.PaymentStats, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)

	paid, err := orders.ListPaidBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	pending, err := orders.ListPendingBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	payments, err := ledger.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	stats := &models.PaymentStats{
		Date:               start.Format("2006-01-02"),
		TotalPaymentsToday: len(paid),
		PendingOrders:      pending,
	}
	if stats.PendingOrders == nil {
		stats.PendingOrders = []models.Order{}
	}

	for _, o := range paid {
		switch o.PaymentMethod {
		case models.PaymentMethodOnline:
			stats.TodayOnline += o.FinalAmount
			stats.OnlineOrdersCount++
		case models.PaymentMethodCash:
			stats.TodayCash += o.FinalAmount
			stats.CashOrdersCount++
		default:
			stats.TodayUnknown += o.FinalAmount
			stats.UnknownOrdersCount++
		}
	}
	stats.TotalAmount = stats.TodayOnline + stats.TodayCash + stats.TodayUnknown

	for _, p := range payments {
		if p.Matched {
			stats.MatchedPayments++
		} else {
			stats.UnmatchedPayments++
		}
	}

	return stats, nil
}
