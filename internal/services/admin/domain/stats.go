package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stats summarises the dashboard header cards.
type Stats struct {
	TotalRevenue       decimal.Decimal
	TodayRevenue       decimal.Decimal
	PendingPayments    int
	PendingWithdrawals int
	ActiveMembers      int
}

// ComputeStats folds payment rows into revenue totals. Today is the calendar
// day of now in loc; a nil loc means UTC.
func ComputeStats(payments []Payment, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.UTC
	}
	year, month, day := now.In(loc).Date()
	stats := Stats{TotalRevenue: decimal.Zero, TodayRevenue: decimal.Zero}
	for _, payment := range payments {
		switch {
		case payment.Status == StatusPending:
			stats.PendingPayments++
		case payment.Status.Settled():
			stats.TotalRevenue = stats.TotalRevenue.Add(payment.Amount)
			y, m, d := payment.CreatedAt.In(loc).Date()
			if y == year && m == month && d == day {
				stats.TodayRevenue = stats.TodayRevenue.Add(payment.Amount)
			}
		}
	}
	return stats
}
