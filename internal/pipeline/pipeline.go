// Package pipeline writes run outputs to disk: the Markdown run report and
// one CSV file per derived relation.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"order-momentum-lab/internal/observability"
	"order-momentum-lab/internal/orchestrator"
	"order-momentum-lab/internal/reporting"
	"order-momentum-lab/internal/storage"
)

// GeneratorVersion identifies the report generator for reproducibility.
const GeneratorVersion = "1.0.0"

// ReportPipeline renders the run report and relation CSVs into an output
// directory.
type ReportPipeline struct {
	reportGen   *reporting.Generator
	outputDir   string
	runID       string
	dataQuality reporting.DataQualitySection

	dataSource    string // "fixtures" or "db" for the rerun command
	postgresDSN   string // for DB mode rerun command
	clickhouseDSN string // for DB mode rerun command
}

// NewReportPipeline creates a pipeline writing to outputDir.
func NewReportPipeline(
	orderStore storage.OrderStore,
	lineItemStore storage.LineItemStore,
	metricStore storage.OrderMetricStore,
	aggregateStore storage.SegmentAggregateStore,
	scoreStore storage.MomentumScoreStore,
	contextStore storage.BehavioralContextStore,
	outputDir string,
) *ReportPipeline {
	return &ReportPipeline{
		reportGen: reporting.NewGenerator(orderStore, lineItemStore, metricStore, aggregateStore, scoreStore, contextStore),
		outputDir: outputDir,
		runID:     "unknown",
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *ReportPipeline) WithClock(clock func() time.Time) *ReportPipeline {
	p.reportGen = p.reportGen.WithClock(clock)
	return p
}

// WithRunID records the pipeline run that produced the stored relations.
func (p *ReportPipeline) WithRunID(runID string) *ReportPipeline {
	p.runID = runID
	return p
}

// WithSanityResult attaches the outcome of the orchestrator's sanity checks
// to the report's data quality section.
func (p *ReportPipeline) WithSanityResult(result *orchestrator.SanityResult) *ReportPipeline {
	if result != nil {
		p.dataQuality = convertToDataQuality(result)
	}
	return p
}

// WithDataSource sets the data source for reproducibility metadata.
// Use "fixtures" for fixture mode. For DB mode, use WithDBSource instead.
func (p *ReportPipeline) WithDataSource(source string) *ReportPipeline {
	p.dataSource = source
	return p
}

// WithDBSource sets the data source to DB mode with actual DSN values for
// the rerun command.
func (p *ReportPipeline) WithDBSource(postgresDSN, clickhouseDSN string) *ReportPipeline {
	p.dataSource = "db"
	p.postgresDSN = postgresDSN
	p.clickhouseDSN = clickhouseDSN
	return p
}

// Run generates the report and writes output files:
// - REPORT.md
// - segments_by_hour.csv
// - segments_by_day.csv
// - segments_by_day_type.csv
// - segments_by_hour_day.csv
// - momentum_scores.csv
// - behavioral_contexts.csv
//
// When the attached sanity result failed, the derived relations are empty and
// the CSVs carry only their headers; the report documents the failed checks.
func (p *ReportPipeline) Run(ctx context.Context) error {
	// Ensure output directory exists
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return err
	}

	report, err := p.reportGen.Generate(ctx)
	if err != nil {
		return err
	}

	// Run metadata the generator cannot derive from stored data
	report.RunID = p.runID
	report.GeneratorVersion = GeneratorVersion
	report.RerunCommand = p.buildRerunCommand()
	report.DataQuality = p.dataQuality

	if err := p.writeFile("REPORT.md", reporting.RenderMarkdown(report)); err != nil {
		return err
	}

	// One CSV per derived relation, chartable as-is
	if err := p.writeFile("segments_by_hour.csv", reporting.RenderSegmentsCSV(report.HourAggregates)); err != nil {
		return err
	}
	if err := p.writeFile("segments_by_day.csv", reporting.RenderSegmentsCSV(report.DayAggregates)); err != nil {
		return err
	}
	if err := p.writeFile("segments_by_day_type.csv", reporting.RenderSegmentsCSV(report.DayTypeAggregates)); err != nil {
		return err
	}
	if err := p.writeFile("segments_by_hour_day.csv", reporting.RenderSegmentsCSV(report.HourDayAggregates)); err != nil {
		return err
	}
	if err := p.writeFile("momentum_scores.csv", reporting.RenderMomentumCSV(report.MomentumScores)); err != nil {
		return err
	}
	if err := p.writeFile("behavioral_contexts.csv", reporting.RenderContextsCSV(report.BehavioralContexts)); err != nil {
		return err
	}

	observability.RecordReportGenerated()
	return nil
}

func (p *ReportPipeline) writeFile(name, content string) error {
	return os.WriteFile(filepath.Join(p.outputDir, name), []byte(content), 0644)
}

// buildRerunCommand returns the command that reproduces this report.
func (p *ReportPipeline) buildRerunCommand() string {
	switch p.dataSource {
	case "fixtures":
		return "go run cmd/report/main.go --use-fixtures"
	case "db":
		// Use actual DSN flags for reproducibility
		return fmt.Sprintf("go run cmd/report/main.go --postgres-dsn %q --clickhouse-dsn %q",
			p.postgresDSN, p.clickhouseDSN)
	default:
		// Default to fixtures if not specified
		return "go run cmd/report/main.go --use-fixtures"
	}
}

// convertToDataQuality converts a SanityResult to the report's data quality
// section.
func convertToDataQuality(result *orchestrator.SanityResult) reporting.DataQualitySection {
	checks := make([]reporting.SanityCheckRow, len(result.Checks))
	for i, c := range result.Checks {
		checks[i] = reporting.SanityCheckRow{
			Name:      c.Name,
			Threshold: c.Threshold,
			Actual:    c.Actual,
			Pass:      c.Pass,
		}
	}
	return reporting.DataQualitySection{
		SanityChecks:    checks,
		IntegrityErrors: result.Errors,
		AllChecksPassed: result.AllPass,
	}
}
