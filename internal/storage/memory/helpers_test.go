package memory

// Pointer helpers for nullable columns in test fixtures.

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func iptr(v int) *int { return &v }
