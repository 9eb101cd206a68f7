package clickhouse

import (
	"context"
	"fmt"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// SegmentAggregateStore implements storage.SegmentAggregateStore using ClickHouse.
type SegmentAggregateStore struct {
	conn *Conn
}

// NewSegmentAggregateStore creates a new SegmentAggregateStore.
func NewSegmentAggregateStore(conn *Conn) *SegmentAggregateStore {
	return &SegmentAggregateStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SegmentAggregateStore = (*SegmentAggregateStore)(nil)

// InsertBulk adds multiple aggregates. Fails entire batch on duplicate
// (dimension, label).
func (s *SegmentAggregateStore) InsertBulk(ctx context.Context, aggregates []*domain.SegmentAggregate) error {
	if len(aggregates) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		dimension domain.Dimension
		label     string
	}
	seen := make(map[key]struct{})
	for _, a := range aggregates {
		k := key{a.Dimension, a.Label}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, a := range aggregates {
		exists, err := s.exists(ctx, a.Dimension, a.Label)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO segment_aggregates (
			dimension, hour, day, label,
			orders, cadence_orders, size_orders,
			mean_cadence, mean_order_size, total_item_volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, a := range aggregates {
		// Pass nil values directly for Nullable columns
		err = batch.Append(
			string(a.Dimension), toNullableUInt8(a.Hour), toNullableUInt8(a.Day), a.Label,
			uint32(a.Orders), uint32(a.CadenceOrders), uint32(a.SizeOrders),
			a.MeanCadence, a.MeanOrderSize, a.TotalItemVolume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByDimension retrieves all aggregates for one grouping dimension in the
// dimension's canonical order. Hour and day are NULL uniformly within a
// dimension, so a single (day, hour, label) sort yields numeric order for
// hour, week order for day_of_week, alphabetical order for day_type, and
// (day, hour) order for the cross.
func (s *SegmentAggregateStore) GetByDimension(ctx context.Context, dimension domain.Dimension) ([]*domain.SegmentAggregate, error) {
	query := `
		SELECT
			dimension, hour, day, label,
			orders, cadence_orders, size_orders,
			mean_cadence, mean_order_size, total_item_volume
		FROM segment_aggregates
		WHERE dimension = ?
		ORDER BY day ASC, hour ASC, label ASC
	`

	rows, err := s.conn.Query(ctx, query, string(dimension))
	if err != nil {
		return nil, fmt.Errorf("query by dimension: %w", err)
	}
	defer rows.Close()

	return scanSegmentAggregates(rows)
}

// GetAll retrieves all aggregates across dimensions, grouped by dimension
// name and canonically ordered within each.
func (s *SegmentAggregateStore) GetAll(ctx context.Context) ([]*domain.SegmentAggregate, error) {
	query := `
		SELECT
			dimension, hour, day, label,
			orders, cadence_orders, size_orders,
			mean_cadence, mean_order_size, total_item_volume
		FROM segment_aggregates
		ORDER BY dimension ASC, day ASC, hour ASC, label ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query segment aggregates: %w", err)
	}
	defer rows.Close()

	return scanSegmentAggregates(rows)
}

// exists checks if an aggregate with the given key exists.
func (s *SegmentAggregateStore) exists(ctx context.Context, dimension domain.Dimension, label string) (bool, error) {
	query := `
		SELECT count(*) FROM segment_aggregates
		WHERE dimension = ? AND label = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, string(dimension), label).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// toNullableUInt8 converts *int to *uint8 for ClickHouse Nullable(UInt8).
func toNullableUInt8(v *int) *uint8 {
	if v == nil {
		return nil
	}
	u := uint8(*v)
	return &u
}

// fromNullableUInt8 converts *uint8 back to *int.
func fromNullableUInt8(v *uint8) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanSegmentAggregates scans multiple rows into a slice.
func scanSegmentAggregates(rows chRows) ([]*domain.SegmentAggregate, error) {
	var aggregates []*domain.SegmentAggregate

	for rows.Next() {
		var a domain.SegmentAggregate
		var dimension string
		var hour, day *uint8
		var orders, cadenceOrders, sizeOrders uint32

		err := rows.Scan(
			&dimension, &hour, &day, &a.Label,
			&orders, &cadenceOrders, &sizeOrders,
			&a.MeanCadence, &a.MeanOrderSize, &a.TotalItemVolume,
		)
		if err != nil {
			return nil, fmt.Errorf("scan segment aggregates row: %w", err)
		}

		a.Dimension = domain.Dimension(dimension)
		a.Hour = fromNullableUInt8(hour)
		a.Day = fromNullableUInt8(day)
		a.Orders = int(orders)
		a.CadenceOrders = int(cadenceOrders)
		a.SizeOrders = int(sizeOrders)

		aggregates = append(aggregates, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segment aggregates rows: %w", err)
	}

	return aggregates, nil
}
