package memory

import (
	"context"
	"sort"
	"sync"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// OrderStore is an in-memory implementation of storage.OrderStore.
type OrderStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.Order // keyed by order_id
}

// NewOrderStore creates a new in-memory order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		data: make(map[int64]*domain.Order),
	}
}

// Insert adds a new order. Returns ErrDuplicateKey if order_id exists.
func (s *OrderStore) Insert(_ context.Context, o *domain.Order) error {
	if o == nil || o.OrderID == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[o.OrderID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *o
	s.data[o.OrderID] = &copy
	return nil
}

// InsertBulk adds multiple orders atomically. Fails entire batch on any duplicate.
func (s *OrderStore) InsertBulk(_ context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[int64]struct{}, len(orders))

	// First pass: check for duplicates (existing + intra-batch)
	for _, o := range orders {
		if o == nil || o.OrderID == 0 {
			return storage.ErrInvalidInput
		}

		if _, exists := s.data[o.OrderID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[o.OrderID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[o.OrderID] = struct{}{}
	}

	// Second pass: insert all
	for _, o := range orders {
		copy := *o
		s.data[o.OrderID] = &copy
	}

	return nil
}

// GetByID retrieves an order by its ID. Returns ErrNotFound if not exists.
func (s *OrderStore) GetByID(_ context.Context, orderID int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, exists := s.data[orderID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *o
	return &copy, nil
}

// GetByEvalSet retrieves all orders of an evaluation split, ordered by order_id ASC.
func (s *OrderStore) GetByEvalSet(_ context.Context, evalSet domain.EvalSet) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Order
	for _, o := range s.data {
		if o.EvalSet == evalSet {
			copy := *o
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].OrderID < result[j].OrderID
	})

	return result, nil
}

// Count returns the total number of orders.
func (s *OrderStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.data)), nil
}

var _ storage.OrderStore = (*OrderStore)(nil)
