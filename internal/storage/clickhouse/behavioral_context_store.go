package clickhouse

import (
	"context"
	"fmt"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// BehavioralContextStore implements storage.BehavioralContextStore using ClickHouse.
type BehavioralContextStore struct {
	conn *Conn
}

// NewBehavioralContextStore creates a new BehavioralContextStore.
func NewBehavioralContextStore(conn *Conn) *BehavioralContextStore {
	return &BehavioralContextStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BehavioralContextStore = (*BehavioralContextStore)(nil)

// InsertBulk adds multiple context rows. Fails entire batch on duplicate (day, hour).
func (s *BehavioralContextStore) InsertBulk(ctx context.Context, contexts []*domain.BehavioralContext) error {
	if len(contexts) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		dayOfWeek int
		hourOfDay int
	}
	seen := make(map[key]struct{})
	for _, c := range contexts {
		k := key{c.DayOfWeek, c.HourOfDay}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, c := range contexts {
		exists, err := s.exists(ctx, c.DayOfWeek, c.HourOfDay)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO behavioral_contexts (
			hour_of_day, day_of_week, label,
			order_size_lift, cadence_lift,
			order_size_stddev, cadence_stddev,
			order_size_z, cadence_z
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, c := range contexts {
		// Pass nil values directly for Nullable columns
		err = batch.Append(
			uint8(c.HourOfDay), uint8(c.DayOfWeek), c.Label,
			c.OrderSizeLift, c.CadenceLift,
			c.OrderSizeStddev, c.CadenceStddev,
			c.OrderSizeZ, c.CadenceZ,
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

// GetAll retrieves all context rows ordered by (day, hour) ASC.
func (s *BehavioralContextStore) GetAll(ctx context.Context) ([]*domain.BehavioralContext, error) {
	query := `
		SELECT
			hour_of_day, day_of_week, label,
			order_size_lift, cadence_lift,
			order_size_stddev, cadence_stddev,
			order_size_z, cadence_z
		FROM behavioral_contexts
		ORDER BY day_of_week ASC, hour_of_day ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query behavioral contexts: %w", err)
	}
	defer rows.Close()

	return scanBehavioralContexts(rows)
}

// exists checks if a context row with the given key exists.
func (s *BehavioralContextStore) exists(ctx context.Context, dayOfWeek, hourOfDay int) (bool, error) {
	query := `
		SELECT count(*) FROM behavioral_contexts
		WHERE day_of_week = ? AND hour_of_day = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, uint8(dayOfWeek), uint8(hourOfDay)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanBehavioralContexts scans multiple rows.
func scanBehavioralContexts(rows chRows) ([]*domain.BehavioralContext, error) {
	var contexts []*domain.BehavioralContext

	for rows.Next() {
		var c domain.BehavioralContext
		var hourOfDay, dayOfWeek uint8

		err := rows.Scan(
			&hourOfDay, &dayOfWeek, &c.Label,
			&c.OrderSizeLift, &c.CadenceLift,
			&c.OrderSizeStddev, &c.CadenceStddev,
			&c.OrderSizeZ, &c.CadenceZ,
		)
		if err != nil {
			return nil, fmt.Errorf("scan behavioral contexts row: %w", err)
		}

		c.HourOfDay = int(hourOfDay)
		c.DayOfWeek = int(dayOfWeek)

		contexts = append(contexts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate behavioral contexts rows: %w", err)
	}

	return contexts, nil
}
