package segments

import (
	"math"
	"testing"

	"order-momentum-lab/internal/domain"
)

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

// metric builds a fact row with the given segment coordinates.
func metric(id int64, hour, day int, cadence *float64, size *int64) *domain.OrderMetric {
	dayType := domain.DayTypeWeekday
	if day >= 5 {
		dayType = domain.DayTypeWeekend
	}
	return &domain.OrderMetric{
		OrderID:   id,
		HourOfDay: hour,
		DayOfWeek: day,
		DayType:   dayType,
		Cadence:   cadence,
		OrderSize: size,
	}
}

func TestAggregate_IndependentNullFilters(t *testing.T) {
	// Two orders in the same hour x day segment: both sized, only one with
	// cadence. Size count is 2 but cadence count is 1.
	metrics := []*domain.OrderMetric{
		metric(1, 9, 3, nil, i64(2)),
		metric(2, 9, 3, f64(7.0), i64(2)),
	}

	aggs := Aggregate(metrics, ByHourDay)
	if len(aggs) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(aggs))
	}

	agg := aggs[0]
	if agg.Orders != 2 {
		t.Errorf("Orders = %d, want 2", agg.Orders)
	}
	if agg.SizeOrders != 2 {
		t.Errorf("SizeOrders = %d, want 2", agg.SizeOrders)
	}
	if agg.CadenceOrders != 1 {
		t.Errorf("CadenceOrders = %d, want 1", agg.CadenceOrders)
	}
	if agg.MeanOrderSize == nil || *agg.MeanOrderSize != 2.00 {
		t.Errorf("MeanOrderSize = %v, want 2.00", agg.MeanOrderSize)
	}
	if agg.MeanCadence == nil || *agg.MeanCadence != 7.00 {
		t.Errorf("MeanCadence = %v, want 7.00", agg.MeanCadence)
	}
	if agg.TotalItemVolume == nil || *agg.TotalItemVolume != 4.0 {
		t.Errorf("TotalItemVolume = %v, want 4.0", agg.TotalItemVolume)
	}
	if agg.Label != "Wednesday at 9 AM" {
		t.Errorf("Label = %q, want %q", agg.Label, "Wednesday at 9 AM")
	}
}

func TestAggregate_HourOrderIsNumericNotLexical(t *testing.T) {
	// Lexical label order would put "2 PM" before "9 AM"
	metrics := []*domain.OrderMetric{
		metric(1, 14, 1, f64(5.0), i64(1)),
		metric(2, 2, 1, f64(5.0), i64(1)),
		metric(3, 9, 1, f64(5.0), i64(1)),
	}

	aggs := Aggregate(metrics, ByHour)
	if len(aggs) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(aggs))
	}

	wantHours := []int{2, 9, 14}
	wantLabels := []string{"2 AM", "9 AM", "2 PM"}
	for i, agg := range aggs {
		if agg.Hour == nil || *agg.Hour != wantHours[i] {
			t.Errorf("Segment %d hour = %v, want %d", i, agg.Hour, wantHours[i])
		}
		if agg.Label != wantLabels[i] {
			t.Errorf("Segment %d label = %q, want %q", i, agg.Label, wantLabels[i])
		}
		if agg.Day != nil {
			t.Errorf("Hour dimension should not carry day, got %d", *agg.Day)
		}
	}
}

func TestAggregate_DayOrderIsWeekOrder(t *testing.T) {
	metrics := []*domain.OrderMetric{
		metric(1, 9, 6, f64(5.0), i64(1)),
		metric(2, 9, 0, f64(5.0), i64(1)),
		metric(3, 9, 3, f64(5.0), i64(1)),
	}

	aggs := Aggregate(metrics, ByDay)
	wantLabels := []string{"Sunday", "Wednesday", "Saturday"}
	if len(aggs) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(aggs))
	}
	for i, agg := range aggs {
		if agg.Label != wantLabels[i] {
			t.Errorf("Segment %d label = %q, want %q", i, agg.Label, wantLabels[i])
		}
	}
}

func TestAggregate_DayTypeAlphabetical(t *testing.T) {
	metrics := []*domain.OrderMetric{
		metric(1, 9, 6, f64(5.0), i64(1)), // Weekend
		metric(2, 9, 1, f64(5.0), i64(1)), // Weekday
		metric(3, 9, 2, f64(5.0), i64(1)), // Weekday
	}

	aggs := Aggregate(metrics, ByDayType)
	if len(aggs) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(aggs))
	}
	if aggs[0].Label != domain.DayTypeWeekday || aggs[1].Label != domain.DayTypeWeekend {
		t.Errorf("Day types not alphabetical: %q, %q", aggs[0].Label, aggs[1].Label)
	}
	if aggs[0].Orders != 2 || aggs[1].Orders != 1 {
		t.Errorf("Order counts: %d weekday, %d weekend; want 2, 1", aggs[0].Orders, aggs[1].Orders)
	}
}

func TestAggregate_HourDayOrderedByDayThenHour(t *testing.T) {
	metrics := []*domain.OrderMetric{
		metric(1, 15, 4, f64(5.0), i64(1)),
		metric(2, 9, 1, f64(5.0), i64(1)),
		metric(3, 8, 1, f64(5.0), i64(1)),
	}

	aggs := Aggregate(metrics, ByHourDay)
	wantLabels := []string{"Monday at 8 AM", "Monday at 9 AM", "Thursday at 3 PM"}
	if len(aggs) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(aggs))
	}
	for i, agg := range aggs {
		if agg.Label != wantLabels[i] {
			t.Errorf("Segment %d label = %q, want %q", i, agg.Label, wantLabels[i])
		}
	}
}

func TestAggregate_MeansRoundedOnceAtComputation(t *testing.T) {
	// 1.125 is exact in binary; its mean rounds half away from zero to 1.13
	metrics := []*domain.OrderMetric{
		metric(1, 9, 1, f64(1.125), i64(3)),
		metric(2, 9, 1, f64(1.125), i64(4)),
	}

	aggs := Aggregate(metrics, ByHour)
	if len(aggs) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(aggs))
	}
	if *aggs[0].MeanCadence != 1.13 {
		t.Errorf("MeanCadence = %v, want 1.13", *aggs[0].MeanCadence)
	}
	if *aggs[0].MeanOrderSize != 3.5 {
		t.Errorf("MeanOrderSize = %v, want 3.5", *aggs[0].MeanOrderSize)
	}
}

func TestAggregate_VolumeEqualsMeanTimesCount(t *testing.T) {
	// total_item_volume == mean_order_size * size_orders within 0.01
	metrics := []*domain.OrderMetric{
		metric(1, 9, 1, nil, i64(2)),
		metric(2, 9, 1, nil, i64(5)),
		metric(3, 9, 1, nil, i64(3)),
		metric(4, 14, 2, nil, i64(7)),
		metric(5, 14, 2, nil, i64(1)),
	}

	for _, ex := range []Extractor{ByHour, ByDay, ByDayType, ByHourDay} {
		for _, agg := range Aggregate(metrics, ex) {
			if agg.TotalItemVolume == nil || agg.MeanOrderSize == nil {
				t.Fatalf("%s/%s: missing size aggregates", ex.Dimension, agg.Label)
			}
			product := *agg.MeanOrderSize * float64(agg.SizeOrders)
			if math.Abs(*agg.TotalItemVolume-product) > 0.01 {
				t.Errorf("%s/%s: volume %v != mean*count %v", ex.Dimension, agg.Label, *agg.TotalItemVolume, product)
			}
		}
	}
}

func TestAggregate_SegmentWithNoCadenceRows(t *testing.T) {
	// All first-ever orders: segment still emitted, cadence family empty
	metrics := []*domain.OrderMetric{
		metric(1, 9, 1, nil, i64(2)),
		metric(2, 9, 1, nil, i64(4)),
	}

	aggs := Aggregate(metrics, ByHourDay)
	if len(aggs) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(aggs))
	}
	agg := aggs[0]
	if agg.CadenceOrders != 0 || agg.MeanCadence != nil {
		t.Errorf("Expected empty cadence family, got count %d mean %v", agg.CadenceOrders, agg.MeanCadence)
	}
	if agg.SizeOrders != 2 || agg.MeanOrderSize == nil {
		t.Errorf("Size family should have 2 rows, got %d", agg.SizeOrders)
	}
}

func TestAggregate_SegmentWithNoSizeRows(t *testing.T) {
	metrics := []*domain.OrderMetric{
		metric(1, 9, 1, f64(6.0), nil),
	}

	aggs := Aggregate(metrics, ByHourDay)
	agg := aggs[0]
	if agg.SizeOrders != 0 || agg.MeanOrderSize != nil || agg.TotalItemVolume != nil {
		t.Errorf("Expected empty size family, got count %d mean %v volume %v",
			agg.SizeOrders, agg.MeanOrderSize, agg.TotalItemVolume)
	}
	if agg.CadenceOrders != 1 {
		t.Errorf("CadenceOrders = %d, want 1", agg.CadenceOrders)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	aggs := Aggregate(nil, ByHour)
	if len(aggs) != 0 {
		t.Errorf("Expected no segments for empty input, got %d", len(aggs))
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	// Identical input yields identical output across runs
	metrics := []*domain.OrderMetric{
		metric(1, 9, 3, f64(7.0), i64(2)),
		metric(2, 14, 5, f64(3.5), i64(8)),
		metric(3, 9, 3, nil, i64(1)),
		metric(4, 0, 0, f64(30.0), nil),
	}

	first := Aggregate(metrics, ByHourDay)
	second := Aggregate(metrics, ByHourDay)

	if len(first) != len(second) {
		t.Fatalf("Run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Label != b.Label || a.Orders != b.Orders || a.CadenceOrders != b.CadenceOrders || a.SizeOrders != b.SizeOrders {
			t.Errorf("Segment %d differs between runs: %+v vs %+v", i, a, b)
		}
		if (a.MeanCadence == nil) != (b.MeanCadence == nil) {
			t.Errorf("Segment %d cadence nullability differs between runs", i)
		}
		if a.MeanCadence != nil && *a.MeanCadence != *b.MeanCadence {
			t.Errorf("Segment %d mean cadence differs: %v vs %v", i, *a.MeanCadence, *b.MeanCadence)
		}
	}
}
