package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// MomentumScoreStore is an in-memory implementation of storage.MomentumScoreStore.
type MomentumScoreStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MomentumScore // keyed by (day, hour)
}

// NewMomentumScoreStore creates a new in-memory momentum score store.
func NewMomentumScoreStore() *MomentumScoreStore {
	return &MomentumScoreStore{
		data: make(map[string]*domain.MomentumScore),
	}
}

// momentumKey generates a unique key for a score.
func momentumKey(day, hour int) string {
	return fmt.Sprintf("%d|%d", day, hour)
}

// InsertBulk adds multiple scores. Fails entire batch on duplicate (day, hour).
func (s *MomentumScoreStore) InsertBulk(_ context.Context, scores []*domain.MomentumScore) error {
	if len(scores) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(scores))
	for _, sc := range scores {
		if sc == nil {
			return storage.ErrInvalidInput
		}
		key := momentumKey(sc.DayOfWeek, sc.HourOfDay)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, sc := range scores {
		copy := *sc
		s.data[momentumKey(sc.DayOfWeek, sc.HourOfDay)] = &copy
	}

	return nil
}

// GetAll retrieves all scores ordered by scaled score DESC, ties by (day, hour) ASC.
func (s *MomentumScoreStore) GetAll(_ context.Context) ([]*domain.MomentumScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.MomentumScore, 0, len(s.data))
	for _, sc := range s.data {
		copy := *sc
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ScaledScore != result[j].ScaledScore {
			return result[i].ScaledScore > result[j].ScaledScore
		}
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].HourOfDay < result[j].HourOfDay
	})

	return result, nil
}

var _ storage.MomentumScoreStore = (*MomentumScoreStore)(nil)
