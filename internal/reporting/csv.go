package reporting

import (
	"fmt"
	"strings"

	"order-momentum-lab/internal/domain"
)

// RenderSegmentsCSV renders segment aggregates as a CSV string.
// NULL cells render as empty strings, matching SQL CSV exports.
func RenderSegmentsCSV(aggregates []*domain.SegmentAggregate) string {
	var sb strings.Builder

	// Header
	sb.WriteString("dimension,hour_of_day,day_of_week,label,orders,cadence_orders,size_orders,")
	sb.WriteString("mean_cadence,mean_order_size,total_item_volume\n")

	// Rows
	for _, agg := range aggregates {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%d,%d,%s,%s,%s\n",
			agg.Dimension,
			formatOptionalInt(agg.Hour),
			formatOptionalInt(agg.Day),
			agg.Label,
			agg.Orders,
			agg.CadenceOrders,
			agg.SizeOrders,
			formatOptional(agg.MeanCadence),
			formatOptional(agg.MeanOrderSize),
			formatOptional(agg.TotalItemVolume),
		))
	}

	return sb.String()
}

// RenderMomentumCSV renders momentum scores as a CSV string.
func RenderMomentumCSV(scores []*domain.MomentumScore) string {
	var sb strings.Builder

	// Header
	sb.WriteString("hour_of_day,day_of_week,label,cadence_lift,log_volume,raw_score,scaled_score\n")

	// Rows
	for _, s := range scores {
		sb.WriteString(fmt.Sprintf("%d,%d,%s,%.2f,%.2f,%.2f,%.2f\n",
			s.HourOfDay,
			s.DayOfWeek,
			s.Label,
			s.CadenceLift,
			s.LogVolume,
			s.RawScore,
			s.ScaledScore,
		))
	}

	return sb.String()
}

// RenderContextsCSV renders behavioral context rows as a CSV string.
func RenderContextsCSV(contexts []*domain.BehavioralContext) string {
	var sb strings.Builder

	// Header
	sb.WriteString("hour_of_day,day_of_week,label,order_size_lift,cadence_lift,")
	sb.WriteString("order_size_stddev,cadence_stddev,order_size_z,cadence_z\n")

	// Rows
	for _, c := range contexts {
		sb.WriteString(fmt.Sprintf("%d,%d,%s,%s,%s,%.2f,%.2f,%s,%s\n",
			c.HourOfDay,
			c.DayOfWeek,
			c.Label,
			formatOptional(c.OrderSizeLift),
			formatOptional(c.CadenceLift),
			c.OrderSizeStddev,
			c.CadenceStddev,
			formatOptional(c.OrderSizeZ),
			formatOptional(c.CadenceZ),
		))
	}

	return sb.String()
}

// formatOptional renders a nullable numeric column: 2 decimals or empty.
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

// formatOptionalInt renders a nullable integer column.
func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}
