// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	RowsLoaded  *prometheus.CounterVec
	LoadsTotal  *prometheus.CounterVec
	LoadLatency prometheus.Histogram

	// Pipeline metrics
	FactRowsBuilt      prometheus.Counter
	AggregatesComputed *prometheus.CounterVec
	ScoresComputed     prometheus.Counter
	ContextsComputed   prometheus.Counter
	PipelineRunsTotal  *prometheus.CounterVec
	PipelineDuration   prometheus.Histogram
	StageDuration      *prometheus.HistogramVec

	// Reporting metrics
	ReportsGenerated prometheus.Counter

	// Health metrics
	LastSuccessfulLoad prometheus.Gauge
	LastSuccessfulRun  prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "order_momentum_lab"
	}

	return &Metrics{
		// Ingestion metrics
		RowsLoaded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "rows_loaded_total",
			Help:      "Total number of rows loaded by relation",
		}, []string{"relation"}),
		LoadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "loads_total",
			Help:      "Total number of dataset loads by status",
		}, []string{"status"}),
		LoadLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "load_duration_seconds",
			Help:      "Dataset load duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Pipeline metrics
		FactRowsBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "fact_rows_built_total",
			Help:      "Total number of order metric fact rows built",
		}),
		AggregatesComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "aggregates_computed_total",
			Help:      "Total number of segment aggregates computed by dimension",
		}, []string{"dimension"}),
		ScoresComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "momentum_scores_computed_total",
			Help:      "Total number of momentum scores computed",
		}),
		ContextsComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "behavioral_contexts_computed_total",
			Help:      "Total number of behavioral context rows computed",
		}),
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Pipeline run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),

		// Reporting metrics
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Health metrics
		LastSuccessfulLoad: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_load_timestamp",
			Help:      "Unix timestamp of last successful dataset load",
		}),
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRelationLoaded adds to the loaded row counter for a relation.
func RecordRelationLoaded(relation string, rows int) {
	DefaultMetrics.RowsLoaded.WithLabelValues(relation).Add(float64(rows))
}

// RecordLoad records a dataset load outcome.
func RecordLoad(status string, durationSeconds float64) {
	DefaultMetrics.LoadsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.LoadLatency.Observe(durationSeconds)
}

// RecordFactRows adds to the fact row counter.
func RecordFactRows(rows int) {
	DefaultMetrics.FactRowsBuilt.Add(float64(rows))
}

// RecordAggregates adds to the aggregate counter for a dimension.
func RecordAggregates(dimension string, rows int) {
	DefaultMetrics.AggregatesComputed.WithLabelValues(dimension).Add(float64(rows))
}

// RecordScores adds to the momentum score counter.
func RecordScores(rows int) {
	DefaultMetrics.ScoresComputed.Add(float64(rows))
}

// RecordContexts adds to the behavioral context counter.
func RecordContexts(rows int) {
	DefaultMetrics.ContextsComputed.Add(float64(rows))
}

// RecordPipelineRun records a pipeline run outcome.
func RecordPipelineRun(status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.PipelineDuration.Observe(durationSeconds)
}

// RecordStageDuration records the duration of one pipeline stage.
func RecordStageDuration(stage string, durationSeconds float64) {
	DefaultMetrics.StageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordReportGenerated increments the report counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}
