// Package aggregate groups cleaned orders into per-customer,
// per-reference-month activity aggregates.
package aggregate

import (
	"math"
	"time"

	"lifecycle-monthly/pkg/models"
)

// Key identifies one aggregation group.
type Key struct {
	CustomerID     string
	ReferenceMonth time.Time
}

// TruncateMonth maps a timestamp to its reference month (first day of
// the calendar month, UTC).
func TruncateMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Round2 rounds half-up at 2 decimal places. Applied after summation
// so per-row rounding error does not compound.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// Monthly computes one MonthAggregate per (customer, reference month)
// group. Orders must already be cleaned: non-empty customer and
// positive amount. The result carries no ordering guarantee.
func Monthly(orders []models.Order) map[Key]*models.MonthAggregate {
	type group struct {
		orderIDs  map[string]struct{}
		merchants map[string]struct{}
		amount    float64
	}

	groups := make(map[Key]*group)
	for i := range orders {
		o := &orders[i]
		k := Key{CustomerID: o.CustomerID, ReferenceMonth: TruncateMonth(o.CreatedAt)}
		g, ok := groups[k]
		if !ok {
			g = &group{
				orderIDs:  make(map[string]struct{}),
				merchants: make(map[string]struct{}),
			}
			groups[k] = g
		}
		if _, seen := g.orderIDs[o.OrderID]; seen {
			// duplicated row for the same order, count it once
			continue
		}
		g.orderIDs[o.OrderID] = struct{}{}
		g.merchants[o.MerchantID] = struct{}{}
		g.amount += o.TotalAmount
	}

	out := make(map[Key]*models.MonthAggregate, len(groups))
	for k, g := range groups {
		n := len(g.orderIDs)
		out[k] = &models.MonthAggregate{
			CustomerID:     k.CustomerID,
			ReferenceMonth: k.ReferenceMonth,
			TotalOrder:     n,
			TotalAmount:    Round2(g.amount),
			TicketMedio:    Round2(g.amount / float64(n)),
			TotalMerchant:  len(g.merchants),
		}
	}
	return out
}
