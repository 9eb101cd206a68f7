package postgres

import (
	"context"
	"fmt"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// ProductStore implements storage.ProductStore using PostgreSQL.
type ProductStore struct {
	pool *Pool
}

// NewProductStore creates a new ProductStore.
func NewProductStore(pool *Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProductStore = (*ProductStore)(nil)

// InsertBulk adds multiple products atomically. Fails entire batch on duplicate product_id.
func (s *ProductStore) InsertBulk(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO products (product_id, product_name, aisle_id, department_id)
		VALUES ($1, $2, $3, $4)
	`

	for _, p := range products {
		_, err := tx.Exec(ctx, query, p.ProductID, p.Name, p.AisleID, p.DepartmentID)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert product in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID. Returns ErrNotFound if not exists.
func (s *ProductStore) GetByID(ctx context.Context, productID int64) (*domain.Product, error) {
	query := `
		SELECT product_id, product_name, aisle_id, department_id
		FROM products
		WHERE product_id = $1
	`

	var p domain.Product
	err := s.pool.QueryRow(ctx, query, productID).Scan(
		&p.ProductID, &p.Name, &p.AisleID, &p.DepartmentID,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return &p, nil
}

// Count returns the total number of products.
func (s *ProductStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// AisleStore implements storage.AisleStore using PostgreSQL.
type AisleStore struct {
	pool *Pool
}

// NewAisleStore creates a new AisleStore.
func NewAisleStore(pool *Pool) *AisleStore {
	return &AisleStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AisleStore = (*AisleStore)(nil)

// InsertBulk adds multiple aisles atomically. Fails entire batch on duplicate aisle_id.
func (s *AisleStore) InsertBulk(ctx context.Context, aisles []*domain.Aisle) error {
	if len(aisles) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO aisles (aisle_id, aisle_name) VALUES ($1, $2)`

	for _, a := range aisles {
		_, err := tx.Exec(ctx, query, a.AisleID, a.Name)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert aisle in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves an aisle by its ID. Returns ErrNotFound if not exists.
func (s *AisleStore) GetByID(ctx context.Context, aisleID int64) (*domain.Aisle, error) {
	var a domain.Aisle
	err := s.pool.QueryRow(ctx,
		`SELECT aisle_id, aisle_name FROM aisles WHERE aisle_id = $1`, aisleID,
	).Scan(&a.AisleID, &a.Name)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get aisle by id: %w", err)
	}
	return &a, nil
}

// Count returns the total number of aisles.
func (s *AisleStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM aisles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count aisles: %w", err)
	}
	return count, nil
}

// DepartmentStore implements storage.DepartmentStore using PostgreSQL.
type DepartmentStore struct {
	pool *Pool
}

// NewDepartmentStore creates a new DepartmentStore.
func NewDepartmentStore(pool *Pool) *DepartmentStore {
	return &DepartmentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DepartmentStore = (*DepartmentStore)(nil)

// InsertBulk adds multiple departments atomically. Fails entire batch on duplicate department_id.
func (s *DepartmentStore) InsertBulk(ctx context.Context, departments []*domain.Department) error {
	if len(departments) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO departments (department_id, department_name) VALUES ($1, $2)`

	for _, d := range departments {
		_, err := tx.Exec(ctx, query, d.DepartmentID, d.Name)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert department in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a department by its ID. Returns ErrNotFound if not exists.
func (s *DepartmentStore) GetByID(ctx context.Context, departmentID int64) (*domain.Department, error) {
	var d domain.Department
	err := s.pool.QueryRow(ctx,
		`SELECT department_id, department_name FROM departments WHERE department_id = $1`, departmentID,
	).Scan(&d.DepartmentID, &d.Name)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get department by id: %w", err)
	}
	return &d, nil
}

// Count returns the total number of departments.
func (s *DepartmentStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM departments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count departments: %w", err)
	}
	return count, nil
}
