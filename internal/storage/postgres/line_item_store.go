package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// LineItemStore implements storage.LineItemStore using PostgreSQL.
type LineItemStore struct {
	pool *Pool
}

// NewLineItemStore creates a new LineItemStore.
func NewLineItemStore(pool *Pool) *LineItemStore {
	return &LineItemStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LineItemStore = (*LineItemStore)(nil)

const insertLineItemQuery = `
	INSERT INTO order_items (order_id, product_id, cart_position, reordered)
	VALUES ($1, $2, $3, $4)
`

// InsertBulk adds multiple line items atomically. Fails entire batch on
// duplicate (order_id, product_id).
func (s *LineItemStore) InsertBulk(ctx context.Context, items []*domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, it := range items {
		_, err := tx.Exec(ctx, insertLineItemQuery,
			it.OrderID, it.ProductID, it.CartPosition, it.Reordered,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert line item in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByOrderID retrieves all line items for an order, ordered by cart position ASC.
func (s *LineItemStore) GetByOrderID(ctx context.Context, orderID int64) ([]*domain.LineItem, error) {
	query := `
		SELECT order_id, product_id, cart_position, reordered
		FROM order_items
		WHERE order_id = $1
		ORDER BY cart_position ASC
	`

	rows, err := s.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get line items by order id: %w", err)
	}
	defer rows.Close()

	return scanLineItems(rows)
}

// GetAll retrieves all line items, ordered by (order_id, cart_position) ASC.
func (s *LineItemStore) GetAll(ctx context.Context) ([]*domain.LineItem, error) {
	query := `
		SELECT order_id, product_id, cart_position, reordered
		FROM order_items
		ORDER BY order_id ASC, cart_position ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all line items: %w", err)
	}
	defer rows.Close()

	return scanLineItems(rows)
}

// Count returns the total number of line items.
func (s *LineItemStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM order_items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count line items: %w", err)
	}
	return count, nil
}

// scanLineItems scans multiple rows into a slice of LineItem.
func scanLineItems(rows pgx.Rows) ([]*domain.LineItem, error) {
	var items []*domain.LineItem

	for rows.Next() {
		var it domain.LineItem

		err := rows.Scan(&it.OrderID, &it.ProductID, &it.CartPosition, &it.Reordered)
		if err != nil {
			return nil, fmt.Errorf("scan line item row: %w", err)
		}

		items = append(items, &it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line item rows: %w", err)
	}

	return items, nil
}
