package memory

import (
	"context"
	"sort"
	"sync"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// BehavioralContextStore is an in-memory implementation of storage.BehavioralContextStore.
type BehavioralContextStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BehavioralContext // keyed by (day, hour)
}

// NewBehavioralContextStore creates a new in-memory behavioral context store.
func NewBehavioralContextStore() *BehavioralContextStore {
	return &BehavioralContextStore{
		data: make(map[string]*domain.BehavioralContext),
	}
}

// InsertBulk adds multiple context rows. Fails entire batch on duplicate (day, hour).
func (s *BehavioralContextStore) InsertBulk(_ context.Context, contexts []*domain.BehavioralContext) error {
	if len(contexts) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(contexts))
	for _, c := range contexts {
		if c == nil {
			return storage.ErrInvalidInput
		}
		key := momentumKey(c.DayOfWeek, c.HourOfDay)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, c := range contexts {
		copy := *c
		s.data[momentumKey(c.DayOfWeek, c.HourOfDay)] = &copy
	}

	return nil
}

// GetAll retrieves all context rows ordered by (day, hour) ASC.
func (s *BehavioralContextStore) GetAll(_ context.Context) ([]*domain.BehavioralContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.BehavioralContext, 0, len(s.data))
	for _, c := range s.data {
		copy := *c
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].HourOfDay < result[j].HourOfDay
	})

	return result, nil
}

var _ storage.BehavioralContextStore = (*BehavioralContextStore)(nil)
