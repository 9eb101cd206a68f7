package reporting

import (
	"time"

	"order-momentum-lab/internal/domain"
)

// Report represents the run report structure.
type Report struct {
	// Metadata
	GeneratedAt       time.Time
	GeneratorVersion  string
	RunID             string
	DatasetVersion    string
	OutputFingerprint string
	RerunCommand      string

	// Data Summary
	DataSummary DataSummary

	// Data Quality (sanity checks)
	DataQuality DataQualitySection

	// Output relations, each in its canonical stored order
	HourAggregates     []*domain.SegmentAggregate
	DayAggregates      []*domain.SegmentAggregate
	DayTypeAggregates  []*domain.SegmentAggregate
	HourDayAggregates  []*domain.SegmentAggregate
	MomentumScores     []*domain.MomentumScore
	BehavioralContexts []*domain.BehavioralContext
}

// DataQualitySection contains dataset sanity checks and integrity errors.
type DataQualitySection struct {
	SanityChecks    []SanityCheckRow
	IntegrityErrors []string
	AllChecksPassed bool
}

// SanityCheckRow represents one sanity criterion.
type SanityCheckRow struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// DataSummary contains source data description.
type DataSummary struct {
	TotalOrders    int
	PriorOrders    int
	TrainOrders    int
	TestOrders     int
	DistinctUsers  int
	TotalLineItems int
	FactRows       int
}
