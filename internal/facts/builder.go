// Package facts derives the per-order fact relation from raw orders and
// line items. One fact row per prior order; train/test orders never
// participate.
package facts

import (
	"errors"
	"fmt"
	"sort"

	"order-momentum-lab/internal/domain"
)

// ErrInvalidDomain is returned when an order carries a value outside its
// defined domain (day-of-week outside 0-6, hour outside 0-23).
var ErrInvalidDomain = errors.New("value outside its domain")

// BuildOrderMetrics derives one OrderMetric per prior order.
//
// Rules:
//   - only orders with eval_set = prior qualify
//   - day_type = "Weekday" for day-of-week 0-4, "Weekend" for 5-6
//   - order_size = count of line items with a matching order_id; orders with
//     no matching line items keep a NULL size (left join, not zero)
//   - cadence = days_since_prior carried through, NULL for first-ever orders
//
// Every qualifying order appears exactly once regardless of line item
// presence. Output is sorted by order_id ASC. Day-of-week or hour values
// outside their domains fail with ErrInvalidDomain.
func BuildOrderMetrics(orders []*domain.Order, items []*domain.LineItem) ([]*domain.OrderMetric, error) {
	// Per-order line item counts for the join
	sizes := make(map[int64]int64, len(orders))
	for _, it := range items {
		sizes[it.OrderID]++
	}

	var result []*domain.OrderMetric
	for _, o := range orders {
		if o.EvalSet != domain.EvalSetPrior {
			continue
		}

		if o.DayOfWeek < 0 || o.DayOfWeek > 6 {
			return nil, fmt.Errorf("order %d: day_of_week %d: %w", o.OrderID, o.DayOfWeek, ErrInvalidDomain)
		}
		if o.HourOfDay < 0 || o.HourOfDay > 23 {
			return nil, fmt.Errorf("order %d: hour_of_day %d: %w", o.OrderID, o.HourOfDay, ErrInvalidDomain)
		}

		m := &domain.OrderMetric{
			OrderID:   o.OrderID,
			HourOfDay: o.HourOfDay,
			DayOfWeek: o.DayOfWeek,
			DayType:   dayType(o.DayOfWeek),
		}

		if o.DaysSincePrior != nil {
			cadence := *o.DaysSincePrior
			m.Cadence = &cadence
		}

		if count, ok := sizes[o.OrderID]; ok {
			size := count
			m.OrderSize = &size
		}

		result = append(result, m)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].OrderID < result[j].OrderID
	})

	return result, nil
}

// dayType labels days 0-4 as Weekday, 5-6 as Weekend.
func dayType(dayOfWeek int) string {
	if dayOfWeek <= 4 {
		return domain.DayTypeWeekday
	}
	return domain.DayTypeWeekend
}
