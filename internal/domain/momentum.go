package domain

// MomentumScore represents the Repurchase Momentum Index for one hour x day
// segment. Corresponds to the momentum_scores table in ClickHouse.
type MomentumScore struct {
	HourOfDay   int     // 0-23
	DayOfWeek   int     // 0=Sunday .. 6=Saturday
	Label       string  // e.g. "Thursday at 9 AM"
	CadenceLift float64 // global mean cadence - segment mean cadence, 2 decimals
	LogVolume   float64 // ln(total item volume), 2 decimals
	RawScore    float64 // cadence lift * log volume
	ScaledScore float64 // raw score min-max rescaled to [0,10], 2 decimals
}
