// Package segments groups the fact relation by time dimensions and computes
// per-segment summary statistics, plus the global statistics shared by the
// momentum and behavioral-context stages.
package segments

import (
	"sort"

	"order-momentum-lab/internal/domain"
)

// GroupKey identifies one segment within a grouping dimension. Only the
// fields the dimension uses are meaningful; the rest stay zero.
type GroupKey struct {
	Hour    int
	Day     int
	DayType string
}

// Extractor parametrizes the aggregation over one grouping dimension: how to
// key a fact row, how to render the key, and the dimension's canonical emit
// order. All four dimensions run through the same aggregation routine.
type Extractor struct {
	Dimension domain.Dimension
	Key       func(m *domain.OrderMetric) GroupKey
	Label     func(k GroupKey) string
	Less      func(a, b GroupKey) bool
	HasHour   bool // emitted rows carry the hour value
	HasDay    bool // emitted rows carry the day value
}

// The four grouping dimensions of the pipeline.
var (
	// ByHour groups by hour of day, emitted in numeric hour order.
	ByHour = Extractor{
		Dimension: domain.DimensionHour,
		Key:       func(m *domain.OrderMetric) GroupKey { return GroupKey{Hour: m.HourOfDay} },
		Label:     func(k GroupKey) string { return domain.HourLabel(k.Hour) },
		Less:      func(a, b GroupKey) bool { return a.Hour < b.Hour },
		HasHour:   true,
	}

	// ByDay groups by day of week, emitted Sunday through Saturday.
	ByDay = Extractor{
		Dimension: domain.DimensionDay,
		Key:       func(m *domain.OrderMetric) GroupKey { return GroupKey{Day: m.DayOfWeek} },
		Label:     func(k GroupKey) string { return domain.DayName(k.Day) },
		Less:      func(a, b GroupKey) bool { return a.Day < b.Day },
		HasDay:    true,
	}

	// ByDayType groups by weekday/weekend, emitted alphabetically.
	ByDayType = Extractor{
		Dimension: domain.DimensionDayType,
		Key:       func(m *domain.OrderMetric) GroupKey { return GroupKey{DayType: m.DayType} },
		Label:     func(k GroupKey) string { return k.DayType },
		Less:      func(a, b GroupKey) bool { return a.DayType < b.DayType },
	}

	// ByHourDay groups by the hour x day cross, emitted by (day, hour).
	// Presentation-time ordering by descending scaled score happens after
	// momentum rescaling, not here.
	ByHourDay = Extractor{
		Dimension: domain.DimensionHourDay,
		Key: func(m *domain.OrderMetric) GroupKey {
			return GroupKey{Hour: m.HourOfDay, Day: m.DayOfWeek}
		},
		Label: func(k GroupKey) string { return domain.SegmentLabel(k.Day, k.Hour) },
		Less: func(a, b GroupKey) bool {
			if a.Day != b.Day {
				return a.Day < b.Day
			}
			return a.Hour < b.Hour
		},
		HasHour: true,
		HasDay:  true,
	}
)

// bucket accumulates one segment's sums and counts.
type bucket struct {
	orders        int
	cadenceOrders int
	sizeOrders    int
	cadenceSum    float64
	sizeSum       float64
}

// Aggregate groups fact rows by the extractor's key and computes one
// SegmentAggregate per non-empty group.
//
// The cadence and order-size families filter NULLs independently: a row with
// NULL cadence still counts toward the size aggregates and vice versa. Means
// are rounded to 2 decimals (half away from zero) here and never re-rounded
// downstream. Segments with zero fact rows are never emitted.
func Aggregate(metrics []*domain.OrderMetric, ex Extractor) []*domain.SegmentAggregate {
	groups := make(map[GroupKey]*bucket)
	var keys []GroupKey

	for _, m := range metrics {
		k := ex.Key(m)
		b, ok := groups[k]
		if !ok {
			b = &bucket{}
			groups[k] = b
			keys = append(keys, k)
		}

		b.orders++
		if m.Cadence != nil {
			b.cadenceSum += *m.Cadence
			b.cadenceOrders++
		}
		if m.OrderSize != nil {
			b.sizeSum += float64(*m.OrderSize)
			b.sizeOrders++
		}
	}

	sort.Slice(keys, func(i, j int) bool { return ex.Less(keys[i], keys[j]) })

	result := make([]*domain.SegmentAggregate, 0, len(keys))
	for _, k := range keys {
		b := groups[k]

		agg := &domain.SegmentAggregate{
			Dimension:     ex.Dimension,
			Label:         ex.Label(k),
			Orders:        b.orders,
			CadenceOrders: b.cadenceOrders,
			SizeOrders:    b.sizeOrders,
		}
		if ex.HasHour {
			hour := k.Hour
			agg.Hour = &hour
		}
		if ex.HasDay {
			day := k.Day
			agg.Day = &day
		}
		if b.cadenceOrders > 0 {
			mean := domain.Round2(b.cadenceSum / float64(b.cadenceOrders))
			agg.MeanCadence = &mean
		}
		if b.sizeOrders > 0 {
			mean := domain.Round2(b.sizeSum / float64(b.sizeOrders))
			agg.MeanOrderSize = &mean
			// Line item counts are integers, so the sum is exact as a float
			volume := b.sizeSum
			agg.TotalItemVolume = &volume
		}

		result = append(result, agg)
	}

	return result
}
