// Package ingestion bulk-loads the grocery order dataset from CSV relations
// into storage. Decoding is strict: a missing column or unparsable value
// aborts the whole load. The storage layer enforces write-once semantics, so
// loading into a populated store fails on the first duplicate.
package ingestion

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"order-momentum-lab/internal/observability"
	"order-momentum-lab/internal/storage"
)

// Dataset names the five CSV relations of a complete input dataset.
type Dataset struct {
	OrdersPath      string
	LineItemsPath   string
	ProductsPath    string
	AislesPath      string
	DepartmentsPath string
}

// DatasetInDir returns the conventional file layout under dir.
func DatasetInDir(dir string) Dataset {
	return Dataset{
		OrdersPath:      filepath.Join(dir, "orders.csv"),
		LineItemsPath:   filepath.Join(dir, "order_items.csv"),
		ProductsPath:    filepath.Join(dir, "products.csv"),
		AislesPath:      filepath.Join(dir, "aisles.csv"),
		DepartmentsPath: filepath.Join(dir, "departments.csv"),
	}
}

// DatasetCounts reports how many rows each relation contributed.
type DatasetCounts struct {
	Orders      int
	LineItems   int
	Products    int
	Aisles      int
	Departments int
}

// Loader decodes dataset relations and bulk-inserts them into their stores.
type Loader struct {
	orderStore      storage.OrderStore
	lineItemStore   storage.LineItemStore
	productStore    storage.ProductStore
	aisleStore      storage.AisleStore
	departmentStore storage.DepartmentStore
	log             logrus.FieldLogger
}

// LoaderOptions contains the stores a Loader writes to. Catalog stores may be
// nil when only the order relations are needed.
type LoaderOptions struct {
	OrderStore      storage.OrderStore
	LineItemStore   storage.LineItemStore
	ProductStore    storage.ProductStore
	AisleStore      storage.AisleStore
	DepartmentStore storage.DepartmentStore
	Logger          logrus.FieldLogger
}

// NewLoader creates a loader over the provided stores.
func NewLoader(opts LoaderOptions) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Loader{
		orderStore:      opts.OrderStore,
		lineItemStore:   opts.LineItemStore,
		productStore:    opts.ProductStore,
		aisleStore:      opts.AisleStore,
		departmentStore: opts.DepartmentStore,
		log:             logger.WithField("component", "ingestion"),
	}
}

// LoadOrders decodes the orders relation from r and stores it.
// Returns the number of rows loaded.
func (l *Loader) LoadOrders(ctx context.Context, r io.Reader, name string) (int, error) {
	orders, err := decodeOrders(name, r)
	if err != nil {
		return 0, err
	}
	if len(orders) == 0 {
		return 0, nil
	}
	if err := l.orderStore.InsertBulk(ctx, orders); err != nil {
		return 0, fmt.Errorf("storing orders: %w", err)
	}

	observability.RecordRelationLoaded("orders", len(orders))
	l.log.WithFields(logrus.Fields{"relation": name, "rows": len(orders)}).Info("Loaded orders")
	return len(orders), nil
}

// LoadLineItems decodes the line item relation from r and stores it.
func (l *Loader) LoadLineItems(ctx context.Context, r io.Reader, name string) (int, error) {
	items, err := decodeLineItems(name, r)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}
	if err := l.lineItemStore.InsertBulk(ctx, items); err != nil {
		return 0, fmt.Errorf("storing line items: %w", err)
	}

	observability.RecordRelationLoaded("order_items", len(items))
	l.log.WithFields(logrus.Fields{"relation": name, "rows": len(items)}).Info("Loaded line items")
	return len(items), nil
}

// LoadProducts decodes the product catalog from r and stores it.
func (l *Loader) LoadProducts(ctx context.Context, r io.Reader, name string) (int, error) {
	if l.productStore == nil {
		return 0, nil
	}

	products, err := decodeProducts(name, r)
	if err != nil {
		return 0, err
	}
	if len(products) == 0 {
		return 0, nil
	}
	if err := l.productStore.InsertBulk(ctx, products); err != nil {
		return 0, fmt.Errorf("storing products: %w", err)
	}

	observability.RecordRelationLoaded("products", len(products))
	l.log.WithFields(logrus.Fields{"relation": name, "rows": len(products)}).Info("Loaded products")
	return len(products), nil
}

// LoadAisles decodes the aisle lookup from r and stores it.
func (l *Loader) LoadAisles(ctx context.Context, r io.Reader, name string) (int, error) {
	if l.aisleStore == nil {
		return 0, nil
	}

	aisles, err := decodeAisles(name, r)
	if err != nil {
		return 0, err
	}
	if len(aisles) == 0 {
		return 0, nil
	}
	if err := l.aisleStore.InsertBulk(ctx, aisles); err != nil {
		return 0, fmt.Errorf("storing aisles: %w", err)
	}

	observability.RecordRelationLoaded("aisles", len(aisles))
	l.log.WithFields(logrus.Fields{"relation": name, "rows": len(aisles)}).Info("Loaded aisles")
	return len(aisles), nil
}

// LoadDepartments decodes the department lookup from r and stores it.
func (l *Loader) LoadDepartments(ctx context.Context, r io.Reader, name string) (int, error) {
	if l.departmentStore == nil {
		return 0, nil
	}

	departments, err := decodeDepartments(name, r)
	if err != nil {
		return 0, err
	}
	if len(departments) == 0 {
		return 0, nil
	}
	if err := l.departmentStore.InsertBulk(ctx, departments); err != nil {
		return 0, fmt.Errorf("storing departments: %w", err)
	}

	observability.RecordRelationLoaded("departments", len(departments))
	l.log.WithFields(logrus.Fields{"relation": name, "rows": len(departments)}).Info("Loaded departments")
	return len(departments), nil
}

// LoadDataset loads all five relations from disk, lookups before the
// relations that reference them.
func (l *Loader) LoadDataset(ctx context.Context, ds Dataset) (DatasetCounts, error) {
	var counts DatasetCounts
	start := time.Now()

	steps := []struct {
		path string
		load func(context.Context, io.Reader, string) (int, error)
		dest *int
	}{
		{ds.DepartmentsPath, l.LoadDepartments, &counts.Departments},
		{ds.AislesPath, l.LoadAisles, &counts.Aisles},
		{ds.ProductsPath, l.LoadProducts, &counts.Products},
		{ds.OrdersPath, l.LoadOrders, &counts.Orders},
		{ds.LineItemsPath, l.LoadLineItems, &counts.LineItems},
	}
	for _, step := range steps {
		f, err := os.Open(step.path)
		if err != nil {
			observability.RecordLoad("error", time.Since(start).Seconds())
			return counts, fmt.Errorf("opening relation: %w", err)
		}
		n, err := step.load(ctx, f, filepath.Base(step.path))
		f.Close()
		if err != nil {
			observability.RecordLoad("error", time.Since(start).Seconds())
			return counts, err
		}
		*step.dest = n
	}

	observability.RecordLoad("success", time.Since(start).Seconds())
	observability.DefaultMetrics.LastSuccessfulLoad.Set(float64(time.Now().Unix()))
	return counts, nil
}
