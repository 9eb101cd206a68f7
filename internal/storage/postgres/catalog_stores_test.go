package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

func TestProductStore_InsertBulkAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewProductStore(pool)

	products := []*domain.Product{
		{ProductID: 1, Name: "Banana", AisleID: 24, DepartmentID: 4},
		{ProductID: 2, Name: "Whole Milk", AisleID: 84, DepartmentID: 16},
	}

	err := store.InsertBulk(ctx, products)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), retrieved.ProductID)
	assert.Equal(t, "Banana", retrieved.Name)
	assert.Equal(t, int64(24), retrieved.AisleID)
	assert.Equal(t, int64(4), retrieved.DepartmentID)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestProductStore_InsertBulkDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewProductStore(pool)

	products := []*domain.Product{
		{ProductID: 10, Name: "Avocado", AisleID: 24, DepartmentID: 4},
	}

	err := store.InsertBulk(ctx, products)
	require.NoError(t, err)

	err = store.InsertBulk(ctx, products)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestProductStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewProductStore(pool)

	_, err := store.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAisleStore_InsertBulkAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAisleStore(pool)

	aisles := []*domain.Aisle{
		{AisleID: 24, Name: "fresh fruits"},
		{AisleID: 84, Name: "milk"},
	}

	err := store.InsertBulk(ctx, aisles)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, 84)
	require.NoError(t, err)

	assert.Equal(t, int64(84), retrieved.AisleID)
	assert.Equal(t, "milk", retrieved.Name)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAisleStore_InsertBulkDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAisleStore(pool)

	aisles := []*domain.Aisle{
		{AisleID: 1, Name: "prepared soups salads"},
	}

	err := store.InsertBulk(ctx, aisles)
	require.NoError(t, err)

	err = store.InsertBulk(ctx, aisles)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestAisleStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAisleStore(pool)

	_, err := store.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDepartmentStore_InsertBulkAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewDepartmentStore(pool)

	departments := []*domain.Department{
		{DepartmentID: 4, Name: "produce"},
		{DepartmentID: 16, Name: "dairy eggs"},
	}

	err := store.InsertBulk(ctx, departments)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, 4)
	require.NoError(t, err)

	assert.Equal(t, int64(4), retrieved.DepartmentID)
	assert.Equal(t, "produce", retrieved.Name)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDepartmentStore_InsertBulkDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewDepartmentStore(pool)

	departments := []*domain.Department{
		{DepartmentID: 1, Name: "frozen"},
	}

	err := store.InsertBulk(ctx, departments)
	require.NoError(t, err)

	err = store.InsertBulk(ctx, departments)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDepartmentStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewDepartmentStore(pool)

	_, err := store.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
