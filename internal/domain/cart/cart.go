// Package cart owns the per-user shopping cart lifecycle and mutation rules.
package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/verdant/storefront/internal/domain/catalog"
)

// ErrInvalidQuantity is returned when an add requests a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// Cart is the per-user staging area of intended purchases. It is created
// lazily on first access and emptied, never deleted.
type Cart struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item is one (cart, product, quantity) row. Quantity is always positive;
// a non-positive quantity removes the row instead.
type Item struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int
	CreatedAt time.Time
}

// Line is a cart item joined with its live product. Cart pricing floats with
// the catalog: the subtotal always reflects the product's current price.
type Line struct {
	Item    Item
	Product catalog.Product
}

// Subtotal is current price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Item.Quantity)))
}

// Contents is a fully populated cart: the cart row plus all lines, fetched
// as one composed read.
type Contents struct {
	Cart  Cart
	Lines []Line
}

// Empty reports whether the cart has no items.
func (c Contents) Empty() bool {
	return len(c.Lines) == 0
}

// TotalItems is the sum of line quantities.
func (c Contents) TotalItems() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Item.Quantity
	}
	return total
}

// TotalAmount is the sum of line subtotals at live prices.
func (c Contents) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Repository defines persistence operations for carts. GetItem returns
// (nil, nil) when the item is absent.
type Repository interface {
	GetOrCreate(ctx context.Context, userID int64) (*Cart, error)
	GetItem(ctx context.Context, cartID, productID int64) (*Item, error)
	UpsertItem(ctx context.Context, cartID, productID int64, quantity int) (*Item, error)
	DeleteItem(ctx context.Context, cartID, productID int64) (bool, error)
	Clear(ctx context.Context, cartID int64) error
	Lines(ctx context.Context, cartID int64) ([]Line, error)
}

// ProductSource is the slice of the catalog the cart manager needs.
type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}
