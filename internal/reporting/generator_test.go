package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage/memory"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

type testStores struct {
	orders   *memory.OrderStore
	items    *memory.LineItemStore
	metrics  *memory.OrderMetricStore
	aggs     *memory.SegmentAggregateStore
	scores   *memory.MomentumScoreStore
	contexts *memory.BehavioralContextStore
}

func setupTestData(t *testing.T) testStores {
	t.Helper()
	ctx := context.Background()

	s := testStores{
		orders:   memory.NewOrderStore(),
		items:    memory.NewLineItemStore(),
		metrics:  memory.NewOrderMetricStore(),
		aggs:     memory.NewSegmentAggregateStore(),
		scores:   memory.NewMomentumScoreStore(),
		contexts: memory.NewBehavioralContextStore(),
	}

	orders := []*domain.Order{
		{OrderID: 11, UserID: 1, EvalSet: domain.EvalSetPrior, OrderNumber: 1, HourOfDay: 9, DayOfWeek: 3},
		{OrderID: 12, UserID: 1, EvalSet: domain.EvalSetPrior, OrderNumber: 2, HourOfDay: 9, DayOfWeek: 3, DaysSincePrior: f64(7.0)},
		{OrderID: 13, UserID: 1, EvalSet: domain.EvalSetTrain, OrderNumber: 3, HourOfDay: 10, DayOfWeek: 3, DaysSincePrior: f64(7.0)},
		{OrderID: 21, UserID: 2, EvalSet: domain.EvalSetPrior, OrderNumber: 1, HourOfDay: 14, DayOfWeek: 5},
		{OrderID: 22, UserID: 2, EvalSet: domain.EvalSetTest, OrderNumber: 2, HourOfDay: 14, DayOfWeek: 5, DaysSincePrior: f64(14.0)},
	}
	if err := s.orders.InsertBulk(ctx, orders); err != nil {
		t.Fatalf("InsertBulk orders failed: %v", err)
	}

	items := []*domain.LineItem{
		{OrderID: 11, ProductID: 100, CartPosition: 1},
		{OrderID: 11, ProductID: 101, CartPosition: 2},
		{OrderID: 12, ProductID: 100, CartPosition: 1, Reordered: true},
		{OrderID: 12, ProductID: 102, CartPosition: 2},
		{OrderID: 21, ProductID: 103, CartPosition: 1},
	}
	if err := s.items.InsertBulk(ctx, items); err != nil {
		t.Fatalf("InsertBulk items failed: %v", err)
	}

	facts := []*domain.OrderMetric{
		{OrderID: 11, HourOfDay: 9, DayOfWeek: 3, DayType: domain.DayTypeWeekday, OrderSize: i64p(2)},
		{OrderID: 12, HourOfDay: 9, DayOfWeek: 3, DayType: domain.DayTypeWeekday, Cadence: f64(7.0), OrderSize: i64p(2)},
		{OrderID: 21, HourOfDay: 14, DayOfWeek: 5, DayType: domain.DayTypeWeekend, OrderSize: i64p(1)},
	}
	if err := s.metrics.InsertBulk(ctx, facts); err != nil {
		t.Fatalf("InsertBulk facts failed: %v", err)
	}

	aggs := []*domain.SegmentAggregate{
		{Dimension: domain.DimensionHour, Hour: intp(9), Label: "9 AM", Orders: 2, CadenceOrders: 1, SizeOrders: 2, MeanCadence: f64(7.00), MeanOrderSize: f64(2.00), TotalItemVolume: f64(4.00)},
		{Dimension: domain.DimensionHour, Hour: intp(14), Label: "2 PM", Orders: 1, CadenceOrders: 0, SizeOrders: 1, MeanOrderSize: f64(1.00), TotalItemVolume: f64(1.00)},
		{Dimension: domain.DimensionDay, Day: intp(3), Label: "Wednesday", Orders: 2, CadenceOrders: 1, SizeOrders: 2, MeanCadence: f64(7.00), MeanOrderSize: f64(2.00), TotalItemVolume: f64(4.00)},
		{Dimension: domain.DimensionDay, Day: intp(5), Label: "Friday", Orders: 1, CadenceOrders: 0, SizeOrders: 1, MeanOrderSize: f64(1.00), TotalItemVolume: f64(1.00)},
		{Dimension: domain.DimensionDayType, Label: "Weekday", Orders: 2, CadenceOrders: 1, SizeOrders: 2, MeanCadence: f64(7.00), MeanOrderSize: f64(2.00), TotalItemVolume: f64(4.00)},
		{Dimension: domain.DimensionDayType, Label: "Weekend", Orders: 1, CadenceOrders: 0, SizeOrders: 1, MeanOrderSize: f64(1.00), TotalItemVolume: f64(1.00)},
		{Dimension: domain.DimensionHourDay, Hour: intp(9), Day: intp(3), Label: "Wednesday at 9 AM", Orders: 2, CadenceOrders: 1, SizeOrders: 2, MeanCadence: f64(7.00), MeanOrderSize: f64(2.00), TotalItemVolume: f64(4.00)},
		{Dimension: domain.DimensionHourDay, Hour: intp(14), Day: intp(5), Label: "Friday at 2 PM", Orders: 1, CadenceOrders: 0, SizeOrders: 1, MeanOrderSize: f64(1.00), TotalItemVolume: f64(1.00)},
	}
	if err := s.aggs.InsertBulk(ctx, aggs); err != nil {
		t.Fatalf("InsertBulk aggregates failed: %v", err)
	}

	scores := []*domain.MomentumScore{
		{HourOfDay: 9, DayOfWeek: 3, Label: "Wednesday at 9 AM", CadenceLift: 2.00, LogVolume: 1.39, RawScore: 2.78, ScaledScore: 10.00},
	}
	if err := s.scores.InsertBulk(ctx, scores); err != nil {
		t.Fatalf("InsertBulk scores failed: %v", err)
	}

	contexts := []*domain.BehavioralContext{
		{HourOfDay: 9, DayOfWeek: 3, Label: "Wednesday at 9 AM", OrderSizeLift: f64(0.33), CadenceLift: f64(2.00), OrderSizeStddev: 0.47, CadenceStddev: 0.00, OrderSizeZ: f64(0.70)},
		{HourOfDay: 14, DayOfWeek: 5, Label: "Friday at 2 PM", OrderSizeLift: f64(-0.67), OrderSizeStddev: 0.47, CadenceStddev: 0.00, OrderSizeZ: f64(-1.43)},
	}
	if err := s.contexts.InsertBulk(ctx, contexts); err != nil {
		t.Fatalf("InsertBulk contexts failed: %v", err)
	}

	return s
}

func newTestGenerator(s testStores) *Generator {
	return NewGenerator(s.orders, s.items, s.metrics, s.aggs, s.scores, s.contexts)
}

func i64p(v int64) *int64 { return &v }

func TestGenerate_DataSummary(t *testing.T) {
	ctx := context.Background()
	s := setupTestData(t)

	report, err := newTestGenerator(s).Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := DataSummary{
		TotalOrders:    5,
		PriorOrders:    3,
		TrainOrders:    1,
		TestOrders:     1,
		DistinctUsers:  2,
		TotalLineItems: 5,
		FactRows:       3,
	}
	if report.DataSummary != want {
		t.Errorf("DataSummary mismatch: got %+v, want %+v", report.DataSummary, want)
	}
}

func TestGenerate_WithClock(t *testing.T) {
	ctx := context.Background()
	s := setupTestData(t)

	fixedTime := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	generator := newTestGenerator(s).WithClock(func() time.Time {
		return fixedTime
	})

	report, err := generator.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !report.GeneratedAt.Equal(fixedTime) {
		t.Errorf("Expected GeneratedAt %v, got %v", fixedTime, report.GeneratedAt)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	ctx := context.Background()

	fixedTime := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	fixedClock := func() time.Time { return fixedTime }

	var firstReport *Report
	for run := 0; run < 5; run++ {
		s := setupTestData(t)
		generator := newTestGenerator(s).WithClock(fixedClock)

		report, err := generator.Generate(ctx)
		if err != nil {
			t.Fatalf("Run %d: Generate failed: %v", run, err)
		}

		if firstReport == nil {
			firstReport = report
			continue
		}

		if !report.GeneratedAt.Equal(firstReport.GeneratedAt) {
			t.Errorf("Run %d: GeneratedAt mismatch", run)
		}
		if report.DatasetVersion != firstReport.DatasetVersion {
			t.Errorf("Run %d: DatasetVersion mismatch", run)
		}
		if report.OutputFingerprint != firstReport.OutputFingerprint {
			t.Errorf("Run %d: OutputFingerprint mismatch", run)
		}
		if report.DataSummary != firstReport.DataSummary {
			t.Errorf("Run %d: DataSummary mismatch", run)
		}
		if len(report.HourDayAggregates) != len(firstReport.HourDayAggregates) {
			t.Errorf("Run %d: HourDayAggregates length mismatch", run)
		}

		for i := range report.HourDayAggregates {
			if report.HourDayAggregates[i].Label != firstReport.HourDayAggregates[i].Label {
				t.Errorf("Run %d: HourDayAggregates[%d] label mismatch", run, i)
			}
		}
		for i := range report.MomentumScores {
			if report.MomentumScores[i].Label != firstReport.MomentumScores[i].Label {
				t.Errorf("Run %d: MomentumScores[%d] label mismatch", run, i)
			}
		}
	}
}

func TestGenerate_DatasetVersionTracksData(t *testing.T) {
	ctx := context.Background()
	s := setupTestData(t)
	generator := newTestGenerator(s)

	before, err := generator.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	extra := &domain.Order{OrderID: 31, UserID: 3, EvalSet: domain.EvalSetPrior, OrderNumber: 1, HourOfDay: 7, DayOfWeek: 1}
	if err := s.orders.Insert(ctx, extra); err != nil {
		t.Fatalf("Insert extra order failed: %v", err)
	}

	after, err := generator.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate after insert failed: %v", err)
	}

	if before.DatasetVersion == after.DatasetVersion {
		t.Error("DatasetVersion should change when the dataset changes")
	}
	if len(before.DatasetVersion) != 64 {
		t.Errorf("DatasetVersion should be 64 hex chars, got %d", len(before.DatasetVersion))
	}
}

func TestGenerate_RelationsInStoredOrder(t *testing.T) {
	ctx := context.Background()
	s := setupTestData(t)

	report, err := newTestGenerator(s).Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(report.HourAggregates) != 2 || len(report.DayAggregates) != 2 ||
		len(report.DayTypeAggregates) != 2 || len(report.HourDayAggregates) != 2 {
		t.Fatalf("Expected 2 aggregates per dimension, got %d/%d/%d/%d",
			len(report.HourAggregates), len(report.DayAggregates),
			len(report.DayTypeAggregates), len(report.HourDayAggregates))
	}

	if report.HourAggregates[0].Label != "9 AM" || report.HourAggregates[1].Label != "2 PM" {
		t.Errorf("Hour aggregates out of order: %s, %s",
			report.HourAggregates[0].Label, report.HourAggregates[1].Label)
	}
	if report.DayTypeAggregates[0].Label != "Weekday" || report.DayTypeAggregates[1].Label != "Weekend" {
		t.Errorf("Day type aggregates out of order: %s, %s",
			report.DayTypeAggregates[0].Label, report.DayTypeAggregates[1].Label)
	}
	if len(report.BehavioralContexts) != 2 || report.BehavioralContexts[0].DayOfWeek != 3 {
		t.Error("Behavioral contexts should come back ordered by (day, hour)")
	}
}

func TestRenderMarkdown_Format(t *testing.T) {
	ctx := context.Background()
	s := setupTestData(t)

	report, err := newTestGenerator(s).Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	report.RunID = "run-123"
	report.GeneratorVersion = "1.0.0"
	report.RerunCommand = "go run cmd/pipeline/main.go -use-fixtures"
	report.DataQuality = DataQualitySection{
		SanityChecks: []SanityCheckRow{
			{Name: "Prior orders", Threshold: "> 0", Actual: "3", Pass: true},
		},
		AllChecksPassed: true,
	}

	md := RenderMarkdown(report)

	requiredSections := []string{
		"# Order Momentum Report",
		"## Reproducibility",
		"## Data Summary",
		"## Data Quality",
		"### Sanity Checks",
		"## Top Momentum Segments",
		"## Output Relations",
	}
	for _, section := range requiredSections {
		if !strings.Contains(md, section) {
			t.Errorf("Markdown missing section: %s", section)
		}
	}

	if !strings.Contains(md, "| Run ID | run-123 |") {
		t.Error("Markdown missing run ID row")
	}
	if !strings.Contains(md, "| 1 | Wednesday at 9 AM | 2.00 | 1.39 | 2.78 | 10.00 |") {
		t.Error("Markdown missing top momentum row")
	}
	if !strings.Contains(md, "**All checks passed.**") {
		t.Error("Markdown missing sanity check status line")
	}
}

func TestRenderMarkdown_FailedChecks(t *testing.T) {
	report := &Report{
		GeneratedAt: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
		DataQuality: DataQualitySection{
			SanityChecks: []SanityCheckRow{
				{Name: "Prior orders", Threshold: "> 0", Actual: "0", Pass: false},
			},
			IntegrityErrors: []string{"no prior orders loaded"},
			AllChecksPassed: false,
		},
	}

	md := RenderMarkdown(report)

	if !strings.Contains(md, "| Prior orders | > 0 | 0 | FAIL |") {
		t.Error("Markdown missing failed check row")
	}
	if !strings.Contains(md, "**Some checks failed.**") {
		t.Error("Markdown missing failure status line")
	}
	if !strings.Contains(md, "- no prior orders loaded") {
		t.Error("Markdown missing integrity error")
	}
	if !strings.Contains(md, "No momentum scores available.") {
		t.Error("Markdown should note missing momentum scores")
	}
}

func TestRenderSegmentsCSV(t *testing.T) {
	aggs := []*domain.SegmentAggregate{
		{Dimension: domain.DimensionHourDay, Hour: intp(9), Day: intp(3), Label: "Wednesday at 9 AM", Orders: 2, CadenceOrders: 1, SizeOrders: 2, MeanCadence: f64(7.0), MeanOrderSize: f64(2.0), TotalItemVolume: f64(4.0)},
		{Dimension: domain.DimensionHour, Hour: intp(2), Label: "2 AM", Orders: 1},
	}

	csv := RenderSegmentsCSV(aggs)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines", len(lines))
	}
	wantHeader := "dimension,hour_of_day,day_of_week,label,orders,cadence_orders,size_orders,mean_cadence,mean_order_size,total_item_volume"
	if lines[0] != wantHeader {
		t.Errorf("Header mismatch:\ngot  %s\nwant %s", lines[0], wantHeader)
	}
	if lines[1] != "hour_day,9,3,Wednesday at 9 AM,2,1,2,7.00,2.00,4.00" {
		t.Errorf("Row mismatch: %s", lines[1])
	}
	// NULL means and a dimension without a day render as empty cells
	if lines[2] != "hour,2,,2 AM,1,0,0,,," {
		t.Errorf("Null row mismatch: %s", lines[2])
	}
}

func TestRenderMomentumCSV(t *testing.T) {
	scores := []*domain.MomentumScore{
		{HourOfDay: 9, DayOfWeek: 3, Label: "Wednesday at 9 AM", CadenceLift: 2.00, LogVolume: 1.39, RawScore: 2.78, ScaledScore: 10.00},
		{HourOfDay: 14, DayOfWeek: 5, Label: "Friday at 2 PM", CadenceLift: -1.00, LogVolume: 0.69, RawScore: -0.69, ScaledScore: 0.00},
	}

	csv := RenderMomentumCSV(scores)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "hour_of_day,day_of_week,label,cadence_lift,log_volume,raw_score,scaled_score" {
		t.Errorf("Header mismatch: %s", lines[0])
	}
	if lines[1] != "9,3,Wednesday at 9 AM,2.00,1.39,2.78,10.00" {
		t.Errorf("Row mismatch: %s", lines[1])
	}
	if lines[2] != "14,5,Friday at 2 PM,-1.00,0.69,-0.69,0.00" {
		t.Errorf("Row mismatch: %s", lines[2])
	}
}

func TestRenderContextsCSV(t *testing.T) {
	contexts := []*domain.BehavioralContext{
		{HourOfDay: 14, DayOfWeek: 5, Label: "Friday at 2 PM", OrderSizeLift: f64(1.5), OrderSizeStddev: 2.0, CadenceStddev: 0.0, OrderSizeZ: f64(0.75)},
	}

	csv := RenderContextsCSV(contexts)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")

	if len(lines) != 2 {
		t.Fatalf("Expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "hour_of_day,day_of_week,label,order_size_lift,cadence_lift,order_size_stddev,cadence_stddev,order_size_z,cadence_z" {
		t.Errorf("Header mismatch: %s", lines[0])
	}
	// Cadence columns are NULL: the segment had no cadence rows and the
	// global cadence stddev is zero
	if lines[1] != "14,5,Friday at 2 PM,1.50,,2.00,0.00,0.75," {
		t.Errorf("Row mismatch: %s", lines[1])
	}
}

func TestRenderCSV_EmptyRelations(t *testing.T) {
	if got := strings.Count(RenderSegmentsCSV(nil), "\n"); got != 1 {
		t.Errorf("Empty segments CSV should be header only, got %d lines", got)
	}
	if got := strings.Count(RenderMomentumCSV(nil), "\n"); got != 1 {
		t.Errorf("Empty momentum CSV should be header only, got %d lines", got)
	}
	if got := strings.Count(RenderContextsCSV(nil), "\n"); got != 1 {
		t.Errorf("Empty contexts CSV should be header only, got %d lines", got)
	}
}
