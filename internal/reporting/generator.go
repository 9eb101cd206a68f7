package reporting

import (
	"context"
	"time"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/idhash"
	"order-momentum-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	orderStore     storage.OrderStore
	lineItemStore  storage.LineItemStore
	metricStore    storage.OrderMetricStore
	aggregateStore storage.SegmentAggregateStore
	scoreStore     storage.MomentumScoreStore
	contextStore   storage.BehavioralContextStore
	now            func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	orderStore storage.OrderStore,
	lineItemStore storage.LineItemStore,
	metricStore storage.OrderMetricStore,
	aggregateStore storage.SegmentAggregateStore,
	scoreStore storage.MomentumScoreStore,
	contextStore storage.BehavioralContextStore,
) *Generator {
	return &Generator{
		orderStore:     orderStore,
		lineItemStore:  lineItemStore,
		metricStore:    metricStore,
		aggregateStore: aggregateStore,
		scoreStore:     scoreStore,
		contextStore:   contextStore,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete run report from the stored relations.
// Run metadata (run ID, rerun command) and the data quality section are
// filled in by the caller; everything derived from stored data is set here.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	// Generate data summary from source relations
	dataSummary, allOrders, err := g.generateDataSummary(ctx)
	if err != nil {
		return nil, err
	}

	// Load output relations in their canonical stored order
	hourAggs, err := g.aggregateStore.GetByDimension(ctx, domain.DimensionHour)
	if err != nil {
		return nil, err
	}
	dayAggs, err := g.aggregateStore.GetByDimension(ctx, domain.DimensionDay)
	if err != nil {
		return nil, err
	}
	dayTypeAggs, err := g.aggregateStore.GetByDimension(ctx, domain.DimensionDayType)
	if err != nil {
		return nil, err
	}
	hourDayAggs, err := g.aggregateStore.GetByDimension(ctx, domain.DimensionHourDay)
	if err != nil {
		return nil, err
	}

	scores, err := g.scoreStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	contexts, err := g.contextStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	datasetVersion := computeDatasetVersion(allOrders, int64(dataSummary.TotalLineItems))

	return &Report{
		GeneratedAt:        g.now(),
		DatasetVersion:     datasetVersion,
		OutputFingerprint:  idhash.ComputeOutputFingerprint(datasetVersion, scores),
		DataSummary:        *dataSummary,
		HourAggregates:     hourAggs,
		DayAggregates:      dayAggs,
		DayTypeAggregates:  dayTypeAggs,
		HourDayAggregates:  hourDayAggs,
		MomentumScores:     scores,
		BehavioralContexts: contexts,
	}, nil
}

// generateDataSummary computes counts over the source and fact relations.
func (g *Generator) generateDataSummary(ctx context.Context) (*DataSummary, []*domain.Order, error) {
	priorOrders, err := g.orderStore.GetByEvalSet(ctx, domain.EvalSetPrior)
	if err != nil {
		return nil, nil, err
	}
	trainOrders, err := g.orderStore.GetByEvalSet(ctx, domain.EvalSetTrain)
	if err != nil {
		return nil, nil, err
	}
	testOrders, err := g.orderStore.GetByEvalSet(ctx, domain.EvalSetTest)
	if err != nil {
		return nil, nil, err
	}

	lineItemCount, err := g.lineItemStore.Count(ctx)
	if err != nil {
		return nil, nil, err
	}

	factCount, err := g.metricStore.Count(ctx)
	if err != nil {
		return nil, nil, err
	}

	allOrders := make([]*domain.Order, 0, len(priorOrders)+len(trainOrders)+len(testOrders))
	allOrders = append(allOrders, priorOrders...)
	allOrders = append(allOrders, trainOrders...)
	allOrders = append(allOrders, testOrders...)

	users := make(map[int64]struct{})
	for _, o := range allOrders {
		users[o.UserID] = struct{}{}
	}

	return &DataSummary{
		TotalOrders:    len(allOrders),
		PriorOrders:    len(priorOrders),
		TrainOrders:    len(trainOrders),
		TestOrders:     len(testOrders),
		DistinctUsers:  len(users),
		TotalLineItems: int(lineItemCount),
		FactRows:       int(factCount),
	}, allOrders, nil
}

// computeDatasetVersion fingerprints the loaded dataset for the
// reproducibility block.
func computeDatasetVersion(orders []*domain.Order, lineItemCount int64) string {
	if len(orders) == 0 {
		return idhash.ComputeDatasetVersion(0, lineItemCount, 0, 0)
	}

	minID, maxID := orders[0].OrderID, orders[0].OrderID
	for _, o := range orders {
		if o.OrderID < minID {
			minID = o.OrderID
		}
		if o.OrderID > maxID {
			maxID = o.OrderID
		}
	}

	return idhash.ComputeDatasetVersion(int64(len(orders)), lineItemCount, minID, maxID)
}
