// Package behavior computes per-segment lift and z-score statistics against
// the global order population.
package behavior

import (
	"fmt"
	"sort"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/segments"
)

// BuildContexts derives one behavioral context row per hour x day aggregate.
// Order-size lift is positive when the segment orders larger baskets than the
// global average; cadence lift is positive when the segment repurchases faster
// than the global average. Z-scores divide the lift by the global population
// stddev and are null when that stddev is zero or the lift itself is null.
//
// Results are sorted by day then hour.
func BuildContexts(aggregates []*domain.SegmentAggregate, stats segments.GlobalStats) ([]*domain.BehavioralContext, error) {
	contexts := make([]*domain.BehavioralContext, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.Hour == nil || agg.Day == nil {
			return nil, fmt.Errorf("segment %q: not an hour x day aggregate", agg.Label)
		}

		row := &domain.BehavioralContext{
			HourOfDay:       *agg.Hour,
			DayOfWeek:       *agg.Day,
			Label:           agg.Label,
			OrderSizeStddev: domain.Round2(stats.OrderSizeStddev),
			CadenceStddev:   domain.Round2(stats.CadenceStddev),
		}

		if agg.MeanOrderSize != nil && stats.MeanOrderSize != nil {
			lift := domain.Round2(*agg.MeanOrderSize - *stats.MeanOrderSize)
			row.OrderSizeLift = &lift
			if stats.OrderSizeStddev != 0 {
				z := domain.Round2(lift / stats.OrderSizeStddev)
				row.OrderSizeZ = &z
			}
		}
		if agg.MeanCadence != nil && stats.MeanCadence != nil {
			lift := domain.Round2(*stats.MeanCadence - *agg.MeanCadence)
			row.CadenceLift = &lift
			if stats.CadenceStddev != 0 {
				z := domain.Round2(lift / stats.CadenceStddev)
				row.CadenceZ = &z
			}
		}

		contexts = append(contexts, row)
	}

	sort.Slice(contexts, func(i, j int) bool {
		if contexts[i].DayOfWeek != contexts[j].DayOfWeek {
			return contexts[i].DayOfWeek < contexts[j].DayOfWeek
		}
		return contexts[i].HourOfDay < contexts[j].HourOfDay
	})
	return contexts, nil
}
