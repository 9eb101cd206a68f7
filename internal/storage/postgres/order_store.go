package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"order-momentum-lab/internal/domain"
	"order-momentum-lab/internal/storage"
)

// OrderStore implements storage.OrderStore using PostgreSQL.
type OrderStore struct {
	pool *Pool
}

// NewOrderStore creates a new OrderStore.
func NewOrderStore(pool *Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OrderStore = (*OrderStore)(nil)

const insertOrderQuery = `
	INSERT INTO orders (
		order_id, user_id, eval_set, order_number,
		hour_of_day, day_of_week, days_since_prior
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// Insert adds a new order. Returns ErrDuplicateKey if order_id exists.
func (s *OrderStore) Insert(ctx context.Context, o *domain.Order) error {
	_, err := s.pool.Exec(ctx, insertOrderQuery,
		o.OrderID, o.UserID, string(o.EvalSet), o.OrderNumber,
		o.HourOfDay, o.DayOfWeek, o.DaysSincePrior,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// InsertBulk adds multiple orders atomically. Fails entire batch on any duplicate.
func (s *OrderStore) InsertBulk(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, o := range orders {
		_, err := tx.Exec(ctx, insertOrderQuery,
			o.OrderID, o.UserID, string(o.EvalSet), o.OrderNumber,
			o.HourOfDay, o.DayOfWeek, o.DaysSincePrior,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert order in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID. Returns ErrNotFound if not exists.
func (s *OrderStore) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	query := `
		SELECT order_id, user_id, eval_set, order_number,
			hour_of_day, day_of_week, days_since_prior
		FROM orders
		WHERE order_id = $1
	`

	row := s.pool.QueryRow(ctx, query, orderID)
	o, err := scanOrder(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return o, nil
}

// GetByEvalSet retrieves all orders of an evaluation split, ordered by order_id ASC.
func (s *OrderStore) GetByEvalSet(ctx context.Context, evalSet domain.EvalSet) ([]*domain.Order, error) {
	query := `
		SELECT order_id, user_id, eval_set, order_number,
			hour_of_day, day_of_week, days_since_prior
		FROM orders
		WHERE eval_set = $1
		ORDER BY order_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(evalSet))
	if err != nil {
		return nil, fmt.Errorf("get orders by eval set: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// Count returns the total number of orders.
func (s *OrderStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// scanOrder scans a single row into an Order.
func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var evalSet string

	err := row.Scan(
		&o.OrderID, &o.UserID, &evalSet, &o.OrderNumber,
		&o.HourOfDay, &o.DayOfWeek, &o.DaysSincePrior,
	)
	if err != nil {
		return nil, err
	}

	o.EvalSet = domain.EvalSet(evalSet)
	return &o, nil
}

// scanOrders scans multiple rows into a slice of Order.
func scanOrders(rows pgx.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order

	for rows.Next() {
		var o domain.Order
		var evalSet string

		err := rows.Scan(
			&o.OrderID, &o.UserID, &evalSet, &o.OrderNumber,
			&o.HourOfDay, &o.DayOfWeek, &o.DaysSincePrior,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		o.EvalSet = domain.EvalSet(evalSet)
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}
