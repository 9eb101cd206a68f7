package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Order Momentum Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Reproducibility
	sb.WriteString("## Reproducibility\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Run ID | %s |\n", r.RunID))
	sb.WriteString(fmt.Sprintf("| Generator Version | %s |\n", r.GeneratorVersion))
	sb.WriteString(fmt.Sprintf("| Dataset Version | %s |\n", r.DatasetVersion))
	sb.WriteString(fmt.Sprintf("| Output Fingerprint | %s |\n", r.OutputFingerprint))
	sb.WriteString(fmt.Sprintf("| Rerun Command | `%s` |\n", r.RerunCommand))
	sb.WriteString("\n")

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Orders | %d |\n", r.DataSummary.TotalOrders))
	sb.WriteString(fmt.Sprintf("| Prior Orders | %d |\n", r.DataSummary.PriorOrders))
	sb.WriteString(fmt.Sprintf("| Train Orders | %d |\n", r.DataSummary.TrainOrders))
	sb.WriteString(fmt.Sprintf("| Test Orders | %d |\n", r.DataSummary.TestOrders))
	sb.WriteString(fmt.Sprintf("| Distinct Users | %d |\n", r.DataSummary.DistinctUsers))
	sb.WriteString(fmt.Sprintf("| Line Items | %d |\n", r.DataSummary.TotalLineItems))
	sb.WriteString(fmt.Sprintf("| Fact Rows | %d |\n", r.DataSummary.FactRows))
	sb.WriteString("\n")

	// Data Quality
	sb.WriteString("## Data Quality\n\n")
	if len(r.DataQuality.SanityChecks) > 0 {
		sb.WriteString("### Sanity Checks\n\n")
		sb.WriteString("| Check | Threshold | Actual | Status |\n")
		sb.WriteString("|-------|-----------|--------|--------|\n")
		for _, check := range r.DataQuality.SanityChecks {
			status := "FAIL"
			if check.Pass {
				status = "PASS"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				check.Name, check.Threshold, check.Actual, status))
		}
		sb.WriteString("\n")

		// Overall status
		if r.DataQuality.AllChecksPassed {
			sb.WriteString("**All checks passed.**\n\n")
		} else {
			sb.WriteString("**Some checks failed.** Derived relations were not computed.\n\n")
		}
	} else if len(r.DataQuality.IntegrityErrors) == 0 {
		sb.WriteString("No data quality checks performed.\n\n")
	}

	// Integrity errors (always shown if present, even without sanity checks)
	if len(r.DataQuality.IntegrityErrors) > 0 {
		sb.WriteString("### Integrity Errors\n\n")
		for _, err := range r.DataQuality.IntegrityErrors {
			sb.WriteString(fmt.Sprintf("- %s\n", err))
		}
		sb.WriteString("\n")
	}

	// Top Momentum Segments
	sb.WriteString("## Top Momentum Segments\n\n")
	if len(r.MomentumScores) > 0 {
		top := r.MomentumScores
		if len(top) > 10 {
			top = top[:10]
		}
		sb.WriteString("| Rank | Segment | Cadence Lift | Log Volume | Raw Score | Scaled Score |\n")
		sb.WriteString("|------|---------|--------------|------------|-----------|--------------|\n")
		for i, s := range top {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %.2f | %.2f | %.2f |\n",
				i+1, s.Label, s.CadenceLift, s.LogVolume, s.RawScore, s.ScaledScore))
		}
	} else {
		sb.WriteString("No momentum scores available.\n")
	}
	sb.WriteString("\n")

	// Output Relations
	sb.WriteString("## Output Relations\n\n")
	sb.WriteString("| Relation | Rows |\n")
	sb.WriteString("|----------|------|\n")
	sb.WriteString(fmt.Sprintf("| segments_by_hour.csv | %d |\n", len(r.HourAggregates)))
	sb.WriteString(fmt.Sprintf("| segments_by_day.csv | %d |\n", len(r.DayAggregates)))
	sb.WriteString(fmt.Sprintf("| segments_by_day_type.csv | %d |\n", len(r.DayTypeAggregates)))
	sb.WriteString(fmt.Sprintf("| segments_by_hour_day.csv | %d |\n", len(r.HourDayAggregates)))
	sb.WriteString(fmt.Sprintf("| momentum_scores.csv | %d |\n", len(r.MomentumScores)))
	sb.WriteString(fmt.Sprintf("| behavioral_contexts.csv | %d |\n", len(r.BehavioralContexts)))
	sb.WriteString("\n")

	return sb.String()
}
