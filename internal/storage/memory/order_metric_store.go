package memory

import (
	"context"
	"sort"
	"sync"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// OrderMetricStore is an in-memory implementation of storage.OrderMetricStore.
type OrderMetricStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.OrderMetric // keyed by order_id
}

// NewOrderMetricStore creates a new in-memory order metric store.
func NewOrderMetricStore() *OrderMetricStore {
	return &OrderMetricStore{
		data: make(map[int64]*domain.OrderMetric),
	}
}

// InsertBulk adds multiple fact rows. Fails entire batch on duplicate order_id.
func (s *OrderMetricStore) InsertBulk(_ context.Context, metrics []*domain.OrderMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[int64]struct{}, len(metrics))
	for _, m := range metrics {
		if m == nil || m.OrderID == 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[m.OrderID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[m.OrderID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[m.OrderID] = struct{}{}
	}

	for _, m := range metrics {
		copy := *m
		s.data[m.OrderID] = &copy
	}

	return nil
}

// GetAll retrieves all fact rows, ordered by order_id ASC.
func (s *OrderMetricStore) GetAll(_ context.Context) ([]*domain.OrderMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.OrderMetric, 0, len(s.data))
	for _, m := range s.data {
		copy := *m
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].OrderID < result[j].OrderID
	})

	return result, nil
}

// Count returns the total number of fact rows.
func (s *OrderMetricStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.data)), nil
}

var _ storage.OrderMetricStore = (*OrderMetricStore)(nil)
