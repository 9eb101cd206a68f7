package domain

// EvalSet tags which evaluation split an order belongs to.
// Only prior orders carry complete per-user history and feed the pipeline.
type EvalSet string

const (
	EvalSetPrior EvalSet = "prior"
	EvalSetTrain EvalSet = "train"
	EvalSetTest  EvalSet = "test"
)

// String returns the string representation of EvalSet.
func (e EvalSet) String() string {
	return string(e)
}

// IsValid checks if the eval set is a valid value.
func (e EvalSet) IsValid() bool {
	return e == EvalSetPrior || e == EvalSetTrain || e == EvalSetTest
}

// Order represents one purchase event.
// Corresponds to the orders table in PostgreSQL.
type Order struct {
	OrderID        int64    // unique order identifier
	UserID         int64    // customer identifier
	EvalSet        EvalSet  // evaluation split: prior | train | test
	OrderNumber    int      // per-user order sequence (1 = first order)
	HourOfDay      int      // 0-23
	DayOfWeek      int      // 0=Sunday .. 6=Saturday
	DaysSincePrior *float64 // days since the user's previous order, NULL for a first order
}

// LineItem represents one product within an order.
// Corresponds to the order_items table in PostgreSQL.
type LineItem struct {
	OrderID      int64 // order the product belongs to
	ProductID    int64 // product identifier
	CartPosition int   // 1-based add-to-cart position
	Reordered    bool  // true if the user has bought this product before
}
