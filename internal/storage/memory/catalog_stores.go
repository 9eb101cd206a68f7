package memory

import (
	"context"
	"sync"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// ProductStore is an in-memory implementation of storage.ProductStore.
type ProductStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.Product // keyed by product_id
}

// NewProductStore creates a new in-memory product store.
func NewProductStore() *ProductStore {
	return &ProductStore{
		data: make(map[int64]*domain.Product),
	}
}

// InsertBulk adds multiple products. Fails entire batch on duplicate product_id.
func (s *ProductStore) InsertBulk(_ context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[int64]struct{}, len(products))
	for _, p := range products {
		if p == nil || p.ProductID == 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[p.ProductID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[p.ProductID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[p.ProductID] = struct{}{}
	}

	for _, p := range products {
		copy := *p
		s.data[p.ProductID] = &copy
	}

	return nil
}

// GetByID retrieves a product by its ID. Returns ErrNotFound if not exists.
func (s *ProductStore) GetByID(_ context.Context, productID int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[productID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *p
	return &copy, nil
}

// Count returns the total number of products.
func (s *ProductStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.data)), nil
}

var _ storage.ProductStore = (*ProductStore)(nil)

// AisleStore is an in-memory implementation of storage.AisleStore.
type AisleStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.Aisle // keyed by aisle_id
}

// NewAisleStore creates a new in-memory aisle store.
func NewAisleStore() *AisleStore {
	return &AisleStore{
		data: make(map[int64]*domain.Aisle),
	}
}

// InsertBulk adds multiple aisles. Fails entire batch on duplicate aisle_id.
func (s *AisleStore) InsertBulk(_ context.Context, aisles []*domain.Aisle) error {
	if len(aisles) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[int64]struct{}, len(aisles))
	for _, a := range aisles {
		if a == nil || a.AisleID == 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[a.AisleID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[a.AisleID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[a.AisleID] = struct{}{}
	}

	for _, a := range aisles {
		copy := *a
		s.data[a.AisleID] = &copy
	}

	return nil
}

// GetByID retrieves an aisle by its ID. Returns ErrNotFound if not exists.
func (s *AisleStore) GetByID(_ context.Context, aisleID int64) (*domain.Aisle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[aisleID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *a
	return &copy, nil
}

// Count returns the total number of aisles.
func (s *AisleStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.data)), nil
}

var _ storage.AisleStore = (*AisleStore)(nil)

// DepartmentStore is an in-memory implementation of storage.DepartmentStore.
type DepartmentStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.Department // keyed by department_id
}

// NewDepartmentStore creates a new in-memory department store.
func NewDepartmentStore() *DepartmentStore {
	return &DepartmentStore{
		data: make(map[int64]*domain.Department),
	}
}

// InsertBulk adds multiple departments. Fails entire batch on duplicate department_id.
func (s *DepartmentStore) InsertBulk(_ context.Context, departments []*domain.Department) error {
	if len(departments) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[int64]struct{}, len(departments))
	for _, d := range departments {
		if d == nil || d.DepartmentID == 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[d.DepartmentID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[d.DepartmentID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[d.DepartmentID] = struct{}{}
	}

	for _, d := range departments {
		copy := *d
		s.data[d.DepartmentID] = &copy
	}

	return nil
}

// GetByID retrieves a department by its ID. Returns ErrNotFound if not exists.
func (s *DepartmentStore) GetByID(_ context.Context, departmentID int64) (*domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.data[departmentID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *d
	return &copy, nil
}

// Count returns the total number of departments.
func (s *DepartmentStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.data)), nil
}

var _ storage.DepartmentStore = (*DepartmentStore)(nil)
