package segments

import (
	"math"

	"order-momentum-lab/internal/domain"
)

// GlobalStats carries the single-pass global statistics over the full fact
// relation. Computed once, then mapped across the segment set by the momentum
// and behavioral-context stages.
type GlobalStats struct {
	CadenceOrders int // rows with non-NULL cadence
	SizeOrders    int // rows with non-NULL order size

	MeanCadence   *float64 // 2 decimals, NULL if no rows have cadence
	MeanOrderSize *float64 // 2 decimals, NULL if no rows have size

	// Population standard deviations kept at full precision; rounding
	// happens where they become output columns.
	CadenceStddev   float64
	OrderSizeStddev float64
}

// ComputeGlobalStats computes global mean and population standard deviation
// of cadence and order size over rows with non-NULL values for the
// respective measure. The two NULL filters apply independently, matching the
// per-segment aggregation.
func ComputeGlobalStats(metrics []*domain.OrderMetric) GlobalStats {
	var cadences, sizes []float64
	for _, m := range metrics {
		if m.Cadence != nil {
			cadences = append(cadences, *m.Cadence)
		}
		if m.OrderSize != nil {
			sizes = append(sizes, float64(*m.OrderSize))
		}
	}

	stats := GlobalStats{
		CadenceOrders: len(cadences),
		SizeOrders:    len(sizes),
	}

	if len(cadences) > 0 {
		mean := computeMean(cadences)
		stats.CadenceStddev = computePopulationStddev(cadences, mean)
		rounded := domain.Round2(mean)
		stats.MeanCadence = &rounded
	}
	if len(sizes) > 0 {
		mean := computeMean(sizes)
		stats.OrderSizeStddev = computePopulationStddev(sizes, mean)
		rounded := domain.Round2(mean)
		stats.MeanOrderSize = &rounded
	}

	return stats
}

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computePopulationStddev calculates population standard deviation
// (n denominator, not n-1). The fact relation is the full population of
// prior orders, not a sample.
func computePopulationStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n))
}
