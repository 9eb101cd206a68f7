package clickhouse

import (
	"context"
	"fmt"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// MomentumScoreStore implements storage.MomentumScoreStore using ClickHouse.
type MomentumScoreStore struct {
	conn *Conn
}

// NewMomentumScoreStore creates a new MomentumScoreStore.
func NewMomentumScoreStore(conn *Conn) *MomentumScoreStore {
	return &MomentumScoreStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MomentumScoreStore = (*MomentumScoreStore)(nil)

// InsertBulk adds multiple scores. Fails entire batch on duplicate (day, hour).
func (s *MomentumScoreStore) InsertBulk(ctx context.Context, scores []*domain.MomentumScore) error {
	if len(scores) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		dayOfWeek int
		hourOfDay int
	}
	seen := make(map[key]struct{})
	for _, sc := range scores {
		k := key{sc.DayOfWeek, sc.HourOfDay}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, sc := range scores {
		exists, err := s.exists(ctx, sc.DayOfWeek, sc.HourOfDay)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO momentum_scores (
			hour_of_day, day_of_week, label,
			cadence_lift, log_volume, raw_score, scaled_score
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, sc := range scores {
		err = batch.Append(
			uint8(sc.HourOfDay), uint8(sc.DayOfWeek), sc.Label,
			sc.CadenceLift, sc.LogVolume, sc.RawScore, sc.ScaledScore,
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

// GetAll retrieves all scores ordered by scaled score DESC, ties by
// (day, hour) ASC.
func (s *MomentumScoreStore) GetAll(ctx context.Context) ([]*domain.MomentumScore, error) {
	query := `
		SELECT
			hour_of_day, day_of_week, label,
			cadence_lift, log_volume, raw_score, scaled_score
		FROM momentum_scores
		ORDER BY scaled_score DESC, day_of_week ASC, hour_of_day ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query momentum scores: %w", err)
	}
	defer rows.Close()

	return scanMomentumScores(rows)
}

// exists checks if a score with the given key exists.
func (s *MomentumScoreStore) exists(ctx context.Context, dayOfWeek, hourOfDay int) (bool, error) {
	query := `
		SELECT count(*) FROM momentum_scores
		WHERE day_of_week = ? AND hour_of_day = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, uint8(dayOfWeek), uint8(hourOfDay)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanMomentumScores scans multiple rows.
func scanMomentumScores(rows chRows) ([]*domain.MomentumScore, error) {
	var scores []*domain.MomentumScore

	for rows.Next() {
		var sc domain.MomentumScore
		var hourOfDay, dayOfWeek uint8

		err := rows.Scan(
			&hourOfDay, &dayOfWeek, &sc.Label,
			&sc.CadenceLift, &sc.LogVolume, &sc.RawScore, &sc.ScaledScore,
		)
		if err != nil {
			return nil, fmt.Errorf("scan momentum scores row: %w", err)
		}

		sc.HourOfDay = int(hourOfDay)
		sc.DayOfWeek = int(dayOfWeek)

		scores = append(scores, &sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate momentum scores rows: %w", err)
	}

	return scores, nil
}
