package domain

// Product represents a catalog product lookup row.
// Corresponds to the products table in PostgreSQL. Loaded by ingestion;
// the analysis pipeline itself never reads the catalog.
type Product struct {
	ProductID    int64  // unique product identifier
	Name         string // display name
	AisleID      int64  // aisle lookup key
	DepartmentID int64  // department lookup key
}

// Aisle represents an aisle lookup row.
// Corresponds to the aisles table in PostgreSQL.
type Aisle struct {
	AisleID int64
	Name    string
}

// Department represents a department lookup row.
// Corresponds to the departments table in PostgreSQL.
type Department struct {
	DepartmentID int64
	Name         string
}
