package ingestion

import (
	"context"
	"embed"
	"fmt"
	"io"
	"path"
)

// The bundled dataset covers four users with distinct shopping rhythms
// (weekly, biweekly, monthly) plus the awkward cases: first orders with null
// cadence, an order with no line items, and train/test rows that the
// pipeline must ignore.
//
//go:embed fixtures/*.csv
var fixtureFS embed.FS

// LoadFixtures loads the bundled sample dataset. It goes through the same
// decoding path as a real load, so fixture files obey the full schema contract.
func (l *Loader) LoadFixtures(ctx context.Context) (DatasetCounts, error) {
	var counts DatasetCounts

	steps := []struct {
		path string
		load func(context.Context, io.Reader, string) (int, error)
		dest *int
	}{
		{"fixtures/departments.csv", l.LoadDepartments, &counts.Departments},
		{"fixtures/aisles.csv", l.LoadAisles, &counts.Aisles},
		{"fixtures/products.csv", l.LoadProducts, &counts.Products},
		{"fixtures/orders.csv", l.LoadOrders, &counts.Orders},
		{"fixtures/order_items.csv", l.LoadLineItems, &counts.LineItems},
	}
	for _, step := range steps {
		f, err := fixtureFS.Open(step.path)
		if err != nil {
			return counts, fmt.Errorf("opening fixture: %w", err)
		}
		n, err := step.load(ctx, f, path.Base(step.path))
		f.Close()
		if err != nil {
			return counts, err
		}
		*step.dest = n
	}

	return counts, nil
}
