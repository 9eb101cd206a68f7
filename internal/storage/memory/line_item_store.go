package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// LineItemStore is an in-memory implementation of storage.LineItemStore.
type LineItemStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LineItem // keyed by composite key
}

// NewLineItemStore creates a new in-memory line item store.
func NewLineItemStore() *LineItemStore {
	return &LineItemStore{
		data: make(map[string]*domain.LineItem),
	}
}

// lineItemKey generates a unique key for a line item.
func lineItemKey(orderID, productID int64) string {
	return fmt.Sprintf("%d|%d", orderID, productID)
}

// InsertBulk adds multiple line items. Fails entire batch on duplicate
// (order_id, product_id).
func (s *LineItemStore) InsertBulk(_ context.Context, items []*domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(items))

	// First pass: check for duplicates (existing + intra-batch)
	for _, it := range items {
		if it == nil || it.OrderID == 0 {
			return storage.ErrInvalidInput
		}
		key := lineItemKey(it.OrderID, it.ProductID)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, it := range items {
		key := lineItemKey(it.OrderID, it.ProductID)
		copy := *it
		s.data[key] = &copy
	}

	return nil
}

// GetByOrderID retrieves all line items for an order, ordered by cart position ASC.
func (s *LineItemStore) GetByOrderID(_ context.Context, orderID int64) ([]*domain.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LineItem
	for _, it := range s.data {
		if it.OrderID == orderID {
			copy := *it
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CartPosition < result[j].CartPosition
	})

	return result, nil
}

// GetAll retrieves all line items, ordered by (order_id, cart_position) ASC.
func (s *LineItemStore) GetAll(_ context.Context) ([]*domain.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.LineItem, 0, len(s.data))
	for _, it := range s.data {
		copy := *it
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].OrderID != result[j].OrderID {
			return result[i].OrderID < result[j].OrderID
		}
		return result[i].CartPosition < result[j].CartPosition
	})

	return result, nil
}

// Count returns the total number of line items.
func (s *LineItemStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.data)), nil
}

var _ storage.LineItemStore = (*LineItemStore)(nil)
