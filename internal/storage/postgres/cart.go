package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdant/storefront/internal/domain/cart"
)

const (
	// The upsert resolves concurrent first-access races against the
	// carts(user_id) unique constraint; DO UPDATE makes RETURNING yield the
	// existing row instead of nothing.
	getOrCreateCartSQL = `INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id, user_id, created_at, updated_at`

	getCartItemSQL = `SELECT id, cart_id, product_id, quantity, created_at
		FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	upsertCartItemSQL = `INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
		RETURNING id, cart_id, product_id, quantity, created_at`

	deleteCartItemSQL = `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	clearCartSQL = `DELETE FROM cart_items WHERE cart_id = $1`

	cartLinesSQL = `SELECT
			ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at,
			p.id, p.name, p.description, p.price, p.image_url, p.stock,
			p.category_id, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetOrCreate returns the user's cart, inserting one on first access.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID int64) (*cart.Cart, error) {
	var c cart.Cart
	err := r.pool.QueryRow(ctx, getOrCreateCartSQL, userID).
		Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "get or create cart for user %d", userID)
	}
	return &c, nil
}

// GetItem returns the cart item for a product, or (nil, nil) when absent.
func (r *CartRepository) GetItem(ctx context.Context, cartID, productID int64) (*cart.Item, error) {
	var item cart.Item
	err := r.pool.QueryRow(ctx, getCartItemSQL, cartID, productID).
		Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get cart item")
	}
	return &item, nil
}

// UpsertItem stores the absolute quantity for (cart, product), inserting or
// overwriting against the unique pair constraint.
func (r *CartRepository) UpsertItem(ctx context.Context, cartID, productID int64, quantity int) (*cart.Item, error) {
	var item cart.Item
	err := r.pool.QueryRow(ctx, upsertCartItemSQL, cartID, productID, quantity).
		Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "upsert cart item")
	}
	return &item, nil
}

// DeleteItem removes a product from the cart and reports whether a row was
// deleted.
func (r *CartRepository) DeleteItem(ctx context.Context, cartID, productID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteCartItemSQL, cartID, productID)
	if err != nil {
		return false, errors.Wrap(err, "delete cart item")
	}
	return tag.RowsAffected() > 0, nil
}

// Clear removes all items from the cart.
func (r *CartRepository) Clear(ctx context.Context, cartID int64) error {
	if _, err := r.pool.Exec(ctx, clearCartSQL, cartID); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

// Lines returns the cart items joined with their live products in one read.
func (r *CartRepository) Lines(ctx context.Context, cartID int64) ([]cart.Line, error) {
	rows, err := r.pool.Query(ctx, cartLinesSQL, cartID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart lines")
	}
	return pgx.CollectRows(rows, scanCartLine)
}

func scanCartLine(row pgx.CollectableRow) (cart.Line, error) {
	var l cart.Line
	err := row.Scan(
		&l.Item.ID, &l.Item.CartID, &l.Item.ProductID, &l.Item.Quantity, &l.Item.CreatedAt,
		&l.Product.ID, &l.Product.Name, &l.Product.Description, &l.Product.Price,
		&l.Product.ImageURL, &l.Product.Stock, &l.Product.CategoryID,
		&l.Product.CreatedAt, &l.Product.UpdatedAt,
	)
	return l, err
}
