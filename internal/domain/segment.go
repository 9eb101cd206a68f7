package domain

// Dimension identifies a segment grouping axis.
type Dimension string

const (
	DimensionHour    Dimension = "hour"
	DimensionDay     Dimension = "day_of_week"
	DimensionDayType Dimension = "day_type"
	DimensionHourDay Dimension = "hour_day"
)

// String returns the string representation of Dimension.
func (d Dimension) String() string {
	return string(d)
}

// IsValid checks if the dimension is a valid value.
func (d Dimension) IsValid() bool {
	switch d {
	case DimensionHour, DimensionDay, DimensionDayType, DimensionHourDay:
		return true
	}
	return false
}

// SegmentAggregate represents summary statistics for one segment of one
// grouping dimension. Corresponds to the segment_aggregates table in ClickHouse.
//
// The cadence and order-size families filter NULLs independently, so each
// carries its own qualifying-row count: a first-ever order contributes to the
// size family but not the cadence family, and an order without line items the
// other way around.
type SegmentAggregate struct {
	Dimension Dimension // grouping axis this row belongs to
	Hour      *int      // hour value, set for hour and hour_day dimensions
	Day       *int      // day-of-week value, set for day_of_week and hour_day dimensions
	Label     string    // human-readable segment rendering

	Orders        int // all fact rows in the segment
	CadenceOrders int // rows with non-NULL cadence
	SizeOrders    int // rows with non-NULL order size

	MeanCadence     *float64 // mean of non-NULL cadence, 2 decimals, NULL if no rows qualify
	MeanOrderSize   *float64 // mean of non-NULL order size, 2 decimals, NULL if no rows qualify
	TotalItemVolume *float64 // sum of non-NULL order sizes, NULL if no rows qualify
}
