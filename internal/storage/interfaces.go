package storage

import (
	"context"

	"order-momentum-lab/internal/domain"
)

// OrderStore provides access to orders storage.
type OrderStore interface {
	// Insert adds a new order. Returns ErrDuplicateKey if order_id exists.
	Insert(ctx context.Context, o *domain.Order) error

	// InsertBulk adds multiple orders atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, orders []*domain.Order) error

	// GetByID retrieves an order by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)

	// GetByEvalSet retrieves all orders of an evaluation split, ordered by order_id ASC.
	GetByEvalSet(ctx context.Context, evalSet domain.EvalSet) ([]*domain.Order, error)

	// Count returns the total number of orders.
	Count(ctx context.Context) (int64, error)
}

// LineItemStore provides access to order_items storage.
type LineItemStore interface {
	// InsertBulk adds multiple line items. Fails entire batch on duplicate
	// (order_id, product_id).
	InsertBulk(ctx context.Context, items []*domain.LineItem) error

	// GetByOrderID retrieves all line items for an order, ordered by cart position ASC.
	GetByOrderID(ctx context.Context, orderID int64) ([]*domain.LineItem, error)

	// GetAll retrieves all line items, ordered by (order_id, cart_position) ASC.
	GetAll(ctx context.Context) ([]*domain.LineItem, error)

	// Count returns the total number of line items.
	Count(ctx context.Context) (int64, error)
}

// ProductStore provides access to products storage.
type ProductStore interface {
	// InsertBulk adds multiple products. Fails entire batch on duplicate product_id.
	InsertBulk(ctx context.Context, products []*domain.Product) error

	// GetByID retrieves a product by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, productID int64) (*domain.Product, error)

	// Count returns the total number of products.
	Count(ctx context.Context) (int64, error)
}

// AisleStore provides access to aisles storage.
type AisleStore interface {
	// InsertBulk adds multiple aisles. Fails entire batch on duplicate aisle_id.
	InsertBulk(ctx context.Context, aisles []*domain.Aisle) error

	// GetByID retrieves an aisle by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, aisleID int64) (*domain.Aisle, error)

	// Count returns the total number of aisles.
	Count(ctx context.Context) (int64, error)
}

// DepartmentStore provides access to departments storage.
type DepartmentStore interface {
	// InsertBulk adds multiple departments. Fails entire batch on duplicate department_id.
	InsertBulk(ctx context.Context, departments []*domain.Department) error

	// GetByID retrieves a department by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, departmentID int64) (*domain.Department, error)

	// Count returns the total number of departments.
	Count(ctx context.Context) (int64, error)
}

// OrderMetricStore provides access to order_metrics storage.
type OrderMetricStore interface {
	// InsertBulk adds multiple fact rows. Fails entire batch on duplicate order_id.
	InsertBulk(ctx context.Context, metrics []*domain.OrderMetric) error

	// GetAll retrieves all fact rows, ordered by order_id ASC.
	GetAll(ctx context.Context) ([]*domain.OrderMetric, error)

	// Count returns the total number of fact rows.
	Count(ctx context.Context) (int64, error)
}

// SegmentAggregateStore provides access to segment_aggregates storage.
type SegmentAggregateStore interface {
	// InsertBulk adds multiple aggregates. Fails entire batch on duplicate
	// (dimension, label).
	InsertBulk(ctx context.Context, aggregates []*domain.SegmentAggregate) error

	// GetByDimension retrieves all aggregates for one grouping dimension in
	// the dimension's canonical order (numeric hour, week order, alphabetical
	// day type, or (day, hour) for the cross).
	GetByDimension(ctx context.Context, dimension domain.Dimension) ([]*domain.SegmentAggregate, error)

	// GetAll retrieves all aggregates across dimensions.
	GetAll(ctx context.Context) ([]*domain.SegmentAggregate, error)
}

// MomentumScoreStore provides access to momentum_scores storage.
type MomentumScoreStore interface {
	// InsertBulk adds multiple scores. Fails entire batch on duplicate (day, hour).
	InsertBulk(ctx context.Context, scores []*domain.MomentumScore) error

	// GetAll retrieves all scores ordered by scaled score DESC, ties by
	// (day, hour) ASC.
	GetAll(ctx context.Context) ([]*domain.MomentumScore, error)
}

// BehavioralContextStore provides access to behavioral_contexts storage.
type BehavioralContextStore interface {
	// InsertBulk adds multiple context rows. Fails entire batch on duplicate (day, hour).
	InsertBulk(ctx context.Context, contexts []*domain.BehavioralContext) error

	// GetAll retrieves all context rows ordered by (day, hour) ASC.
	GetAll(ctx context.Context) ([]*domain.BehavioralContext, error)
}
