// Package orchestrator coordinates the batch pipeline execution.
// Flow: sanity checks → fact building → segment aggregation → momentum
// scoring and behavioral context.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"order-momentum-lab/internal/behavior"
	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/facts"
	"order-momentum-lab/internal/momentum"
	"order-momentum-lab/internal/observability"
	"order-momentum-lab/internal/segments"
	"order-momentum-lab/internal/storage"
)

// ErrSanityFailed signals that the loaded dataset failed its sanity checks.
// No derived relation is computed in that case.
var ErrSanityFailed = errors.New("dataset failed sanity checks")

// Orchestrator coordinates the batch pipeline execution.
type Orchestrator struct {
	// Source stores
	orderStore    storage.OrderStore
	lineItemStore storage.LineItemStore

	// Output stores
	metricStore    storage.OrderMetricStore
	aggregateStore storage.SegmentAggregateStore
	scoreStore     storage.MomentumScoreStore
	contextStore   storage.BehavioralContextStore

	log logrus.FieldLogger
}

// Options for creating Orchestrator.
type Options struct {
	// Required stores
	OrderStore     storage.OrderStore
	LineItemStore  storage.LineItemStore
	MetricStore    storage.OrderMetricStore
	AggregateStore storage.SegmentAggregateStore
	ScoreStore     storage.MomentumScoreStore
	ContextStore   storage.BehavioralContextStore

	// Logger defaults to the logrus standard logger when nil.
	Logger logrus.FieldLogger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Orchestrator{
		orderStore:     opts.OrderStore,
		lineItemStore:  opts.LineItemStore,
		metricStore:    opts.MetricStore,
		aggregateStore: opts.AggregateStore,
		scoreStore:     opts.ScoreStore,
		contextStore:   opts.ContextStore,
		log:            logger.WithField("component", "orchestrator"),
	}
}

// RunResult contains results from one pipeline run.
type RunResult struct {
	// RunID identifies the run in logs and reports. It is metadata only and
	// never part of the output relations, which stay byte-identical across
	// reruns over the same input.
	RunID string

	PriorOrders int
	FactRows    int
	Aggregates  int
	Scores      int
	Contexts    int

	Sanity *SanityResult
}

// Run executes the full batch pipeline.
// Stages:
//  1. Load prior orders and line items
//  2. Sanity checks (failures abort before any computation)
//  3. Build the per-order fact relation
//  4. Aggregate the four grouping dimensions
//  5. Momentum scoring and behavioral context over the hour x day segments
//
// Derived relations are persisted with bulk append-only inserts, so a second
// Run against the same stores fails with storage.ErrDuplicateKey instead of
// silently rewriting outputs.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	result, err := o.run(ctx)
	switch {
	case errors.Is(err, ErrSanityFailed):
		observability.RecordPipelineRun("sanity_failed", time.Since(start).Seconds())
	case err != nil:
		observability.RecordPipelineRun("error", time.Since(start).Seconds())
	default:
		observability.RecordPipelineRun("success", time.Since(start).Seconds())
		observability.DefaultMetrics.LastSuccessfulRun.Set(float64(time.Now().Unix()))
	}
	return result, err
}

func (o *Orchestrator) run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{RunID: uuid.New().String()}
	log := o.log.WithField("run_id", result.RunID)

	// Stage 1: load source relations
	stageStart := time.Now()
	orders, err := o.orderStore.GetByEvalSet(ctx, domain.EvalSetPrior)
	if err != nil {
		return nil, fmt.Errorf("stage 1 (load orders): %w", err)
	}
	items, err := o.lineItemStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("stage 1 (load line items): %w", err)
	}
	result.PriorOrders = len(orders)
	observability.RecordStageDuration("load", time.Since(stageStart).Seconds())
	log.WithFields(logrus.Fields{
		"prior_orders": len(orders),
		"line_items":   len(items),
	}).Info("Loaded source relations")

	// Stage 2: sanity checks
	stageStart = time.Now()
	sanity, err := NewSanityChecker(o.orderStore, o.lineItemStore).Check(ctx)
	if err != nil {
		return nil, fmt.Errorf("stage 2 (sanity checks): %w", err)
	}
	result.Sanity = sanity
	observability.RecordStageDuration("sanity", time.Since(stageStart).Seconds())
	if !sanity.AllPass {
		log.WithField("integrity_errors", len(sanity.Errors)).Error("Dataset failed sanity checks")
		return result, ErrSanityFailed
	}

	// Stage 3: build the fact relation
	stageStart = time.Now()
	metrics, err := facts.BuildOrderMetrics(orders, items)
	if err != nil {
		return nil, fmt.Errorf("stage 3 (build facts): %w", err)
	}
	if err := o.metricStore.InsertBulk(ctx, metrics); err != nil {
		return nil, fmt.Errorf("stage 3 (store facts): %w", err)
	}
	result.FactRows = len(metrics)
	observability.RecordStageDuration("facts", time.Since(stageStart).Seconds())
	observability.RecordFactRows(len(metrics))
	log.WithField("fact_rows", len(metrics)).Info("Built fact relation")

	// Stage 4: aggregate the four grouping dimensions
	stageStart = time.Now()
	var aggregates []*domain.SegmentAggregate
	var hourDayAggs []*domain.SegmentAggregate
	for _, ex := range []segments.Extractor{segments.ByHour, segments.ByDay, segments.ByDayType, segments.ByHourDay} {
		aggs := segments.Aggregate(metrics, ex)
		if ex.Dimension == domain.DimensionHourDay {
			hourDayAggs = aggs
		}
		observability.RecordAggregates(ex.Dimension.String(), len(aggs))
		aggregates = append(aggregates, aggs...)
	}
	if err := o.aggregateStore.InsertBulk(ctx, aggregates); err != nil {
		return nil, fmt.Errorf("stage 4 (store aggregates): %w", err)
	}
	result.Aggregates = len(aggregates)
	observability.RecordStageDuration("aggregate", time.Since(stageStart).Seconds())
	log.WithFields(logrus.Fields{
		"aggregates":        len(aggregates),
		"hour_day_segments": len(hourDayAggs),
	}).Info("Aggregated segments")

	// One global pass over the fact relation, shared by both stage-5 branches
	stageStart = time.Now()
	stats := segments.ComputeGlobalStats(metrics)

	// Stage 5a: momentum scoring. A nil global mean means no fact row has a
	// cadence, in which case every segment is skipped anyway.
	globalCadence := 0.0
	if stats.MeanCadence != nil {
		globalCadence = *stats.MeanCadence
	}
	scores, err := momentum.Score(hourDayAggs, globalCadence)
	if err != nil {
		return nil, fmt.Errorf("stage 5 (momentum scoring): %w", err)
	}
	if len(scores) > 0 {
		if err := o.scoreStore.InsertBulk(ctx, scores); err != nil {
			return nil, fmt.Errorf("stage 5 (store scores): %w", err)
		}
	}
	result.Scores = len(scores)

	// Stage 5b: behavioral context
	contexts, err := behavior.BuildContexts(hourDayAggs, stats)
	if err != nil {
		return nil, fmt.Errorf("stage 5 (behavioral context): %w", err)
	}
	if len(contexts) > 0 {
		if err := o.contextStore.InsertBulk(ctx, contexts); err != nil {
			return nil, fmt.Errorf("stage 5 (store contexts): %w", err)
		}
	}
	result.Contexts = len(contexts)
	observability.RecordStageDuration("score", time.Since(stageStart).Seconds())
	observability.RecordScores(len(scores))
	observability.RecordContexts(len(contexts))

	log.WithFields(logrus.Fields{
		"fact_rows":  result.FactRows,
		"aggregates": result.Aggregates,
		"scores":     result.Scores,
		"contexts":   result.Contexts,
	}).Info("Pipeline completed")

	return result, nil
}
