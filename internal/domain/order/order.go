// Package order converts carts into orders and owns the order lifecycle.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrCartEmpty is returned when checkout is attempted with no cart items.
var ErrCartEmpty = errors.New("cannot checkout with an empty cart")

// Status is an order's fulfillment state. Any non-empty string is accepted
// by UpdateStatus; these constants name the states the system knows about.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

// Order is the immutable-total record of a completed purchase. Total is
// snapshotted at creation and never recomputed from the catalog.
type Order struct {
	ID        int64
	UserID    int64
	Total     decimal.Decimal
	Status    Status
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item is a purchase line with the price frozen at order time. Catalog price
// changes after purchase never alter historical orders.
type Item struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
	CreatedAt time.Time
}

// Subtotal is the frozen price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Repository defines persistence operations for orders.
//
// Create must be atomic: insert the order and its items, decrement each
// product's stock conditionally (only when the resulting stock stays
// non-negative), and clear the source cart, all in one transaction. A
// failed decrement aborts with *catalog.InsufficientStockError and rolls
// everything back.
//
// Get and UpdateStatus return (nil, nil) for a missing order rather than an
// error; callers must check.
type Repository interface {
	Create(ctx context.Context, o *Order, cartID int64) error
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)
}
