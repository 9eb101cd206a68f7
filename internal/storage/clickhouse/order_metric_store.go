package clickhouse

import (
	"context"
	"fmt"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// OrderMetricStore implements storage.OrderMetricStore using ClickHouse.
type OrderMetricStore struct {
	conn *Conn
}

// NewOrderMetricStore creates a new OrderMetricStore.
func NewOrderMetricStore(conn *Conn) *OrderMetricStore {
	return &OrderMetricStore{conn: conn}
}

// Compile-time interface check.
var _ storage.OrderMetricStore = (*OrderMetricStore)(nil)

// InsertBulk adds multiple fact rows. Fails entire batch on duplicate order_id.
func (s *OrderMetricStore) InsertBulk(ctx context.Context, metrics []*domain.OrderMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[int64]struct{})
	for _, m := range metrics {
		if _, exists := seen[m.OrderID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[m.OrderID] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, m := range metrics {
		exists, err := s.exists(ctx, m.OrderID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO order_metrics (
			order_id, hour_of_day, day_of_week, day_type, cadence, order_size
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, m := range metrics {
		// Pass nil values directly for Nullable columns
		err = batch.Append(
			m.OrderID, uint8(m.HourOfDay), uint8(m.DayOfWeek), m.DayType,
			m.Cadence, m.OrderSize,
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

// GetAll retrieves all fact rows, ordered by order_id ASC.
func (s *OrderMetricStore) GetAll(ctx context.Context) ([]*domain.OrderMetric, error) {
	query := `
		SELECT order_id, hour_of_day, day_of_week, day_type, cadence, order_size
		FROM order_metrics
		ORDER BY order_id ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query order metrics: %w", err)
	}
	defer rows.Close()

	return scanOrderMetrics(rows)
}

// Count returns the total number of fact rows.
func (s *OrderMetricStore) Count(ctx context.Context) (int64, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM order_metrics`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count order metrics: %w", err)
	}
	return int64(count), nil
}

// exists checks if a fact row with the given order_id exists.
func (s *OrderMetricStore) exists(ctx context.Context, orderID int64) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM order_metrics WHERE order_id = ?`, orderID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanOrderMetrics scans multiple rows.
func scanOrderMetrics(rows chRows) ([]*domain.OrderMetric, error) {
	var metrics []*domain.OrderMetric

	for rows.Next() {
		var m domain.OrderMetric
		var hourOfDay, dayOfWeek uint8

		err := rows.Scan(
			&m.OrderID, &hourOfDay, &dayOfWeek, &m.DayType,
			&m.Cadence, &m.OrderSize,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order metrics row: %w", err)
		}

		m.HourOfDay = int(hourOfDay)
		m.DayOfWeek = int(dayOfWeek)

		metrics = append(metrics, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order metrics rows: %w", err)
	}

	return metrics, nil
}
