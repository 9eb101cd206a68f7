package domain

// Day type labels for the weekday/weekend dimension.
const (
	DayTypeWeekday = "Weekday"
	DayTypeWeekend = "Weekend"
)

// OrderMetric represents the per-order fact row derived from prior orders.
// Corresponds to the order_metrics table in ClickHouse.
type OrderMetric struct {
	OrderID   int64    // order identifier, unique within the relation
	HourOfDay int      // 0-23
	DayOfWeek int      // 0=Sunday .. 6=Saturday
	DayType   string   // "Weekday" for days 0-4, else "Weekend"
	Cadence   *float64 // days since the user's previous order, NULL for first-ever orders
	OrderSize *int64   // line item count, NULL when the order has no line items recorded
}
