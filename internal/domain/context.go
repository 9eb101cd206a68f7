package domain

// BehavioralContext represents lift and z-score statistics for one hour x day
// segment relative to global dataset statistics.
// Corresponds to the behavioral_contexts table in ClickHouse.
//
// Lift signs are oriented so that positive always means favorable: order-size
// lift is segment minus global (bigger baskets are favorable), cadence lift is
// global minus segment (faster repurchase is favorable).
type BehavioralContext struct {
	HourOfDay int    // 0-23
	DayOfWeek int    // 0=Sunday .. 6=Saturday
	Label     string // e.g. "Thursday at 9 AM"

	OrderSizeLift *float64 // segment mean order size - global mean, NULL if the segment has no sized rows
	CadenceLift   *float64 // global mean cadence - segment mean, NULL if the segment has no cadence rows

	OrderSizeStddev float64 // global population stddev of order size, 2 decimals
	CadenceStddev   float64 // global population stddev of cadence, 2 decimals

	OrderSizeZ *float64 // order-size lift / global stddev, NULL if the stddev is zero or the lift is NULL
	CadenceZ   *float64 // cadence lift / global stddev, NULL if the stddev is zero or the lift is NULL
}
