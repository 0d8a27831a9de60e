package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdant/storefront/internal/domain/catalog"
	"github.com/verdant/storefront/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (user_id, total, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	// Conditional decrement: zero rows affected means the remaining stock
	// cannot cover the purchase, and the whole checkout rolls back.
	decrementStockSQL = `UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`

	productStockSQL = `SELECT name, stock FROM products WHERE id = $1`

	listOrdersByUserSQL = `SELECT id, user_id, total, status, created_at, updated_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	getOrderSQL = `SELECT id, user_id, total, status, created_at, updated_at
		FROM orders WHERE id = $1`

	updateOrderStatusSQL = `UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, total, status, created_at, updated_at`

	listOrderItemsSQL = `SELECT id, order_id, product_id, quantity, price, created_at
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY order_id, id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create places an order atomically: the order row, its items, the
// conditional stock decrements, and the cart clear either all commit or all
// roll back. On success o is updated in place with generated IDs and
// timestamps.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order, cartID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin checkout")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx, insertOrderSQL, o.UserID, o.Total, o.Status).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	for i := range o.Items {
		item := &o.Items[i]

		tag, err := tx.Exec(ctx, decrementStockSQL, item.ProductID, item.Quantity)
		if err != nil {
			return errors.Wrapf(err, "decrement stock for product %d", item.ProductID)
		}
		if tag.RowsAffected() == 0 {
			return r.stockConflict(ctx, tx, item.ProductID, item.Quantity)
		}

		item.OrderID = o.ID
		err = tx.QueryRow(ctx, insertOrderItemSQL,
			o.ID, item.ProductID, item.Quantity, item.Price,
		).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return errors.Wrapf(err, "insert order item for product %d", item.ProductID)
		}
	}

	if _, err := tx.Exec(ctx, clearCartSQL, cartID); err != nil {
		return errors.Wrap(err, "clear cart")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit checkout")
	}
	return nil
}

// stockConflict builds the insufficient-stock error for a failed decrement,
// distinguishing a vanished product from depleted stock.
func (r *OrderRepository) stockConflict(ctx context.Context, tx pgx.Tx, productID int64, requested int) error {
	var (
		name  string
		stock int
	)
	err := tx.QueryRow(ctx, productStockSQL, productID).Scan(&name, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &catalog.ProductNotFoundError{ProductID: productID}
		}
		return errors.Wrapf(err, "inspect stock for product %d", productID)
	}
	return &catalog.InsufficientStockError{
		Product:   name,
		Requested: requested,
		Available: stock,
	}
}

// ListByUser returns all orders for a user, newest first, with items.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, errors.Wrap(err, "scan orders")
	}
	if len(orders) == 0 {
		return orders, nil
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Get returns a single order with items, or (nil, nil) when it does not
// exist.
func (r *OrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", id)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get order %d", id)
	}

	orders := []order.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// UpdateStatus overwrites the status of an existing order and returns it, or
// (nil, nil) when the order does not exist.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, updateOrderStatusSQL, id, status)
	if err != nil {
		return nil, errors.Wrapf(err, "update status of order %d", id)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "update status of order %d", id)
	}

	orders := []order.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// attachItems loads the items for every order in one query and distributes
// them in place.
func (r *OrderRepository) attachItems(ctx context.Context, orders []order.Order) error {
	ids := make([]int64, len(orders))
	byID := make(map[int64]*order.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
	}

	rows, err := r.pool.Query(ctx, listOrderItemsSQL, ids)
	if err != nil {
		return errors.Wrap(err, "list order items")
	}

	items, err := pgx.CollectRows(rows, scanOrderItem)
	if err != nil {
		return errors.Wrap(err, "scan order items")
	}
	for _, item := range items {
		o := byID[item.OrderID]
		o.Items = append(o.Items, item)
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var i order.Item
	err := row.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.Price, &i.CreatedAt)
	return i, err
}
