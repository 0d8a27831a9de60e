// Package catalog holds the product catalog types and the read-only query
// facade used by both the cart manager and the HTTP layer.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item available for purchase. Stock is the live
// inventory count, decremented only when an order is placed.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Stock       int
	CategoryID  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanFulfill reports whether the current stock covers the requested quantity.
func (p Product) CanFulfill(quantity int) bool {
	return p.Stock >= quantity
}

// InStock reports whether any stock remains.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Category groups products. Names are unique.
type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// ProductNotFoundError indicates a referenced product does not exist.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// CategoryNotFoundError indicates a referenced category does not exist.
type CategoryNotFoundError struct {
	CategoryID int64
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category %d not found", e.CategoryID)
}

// InsufficientStockError indicates a requested quantity exceeds the product's
// current stock. Both the cart manager and the order processor return it.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Product, e.Requested, e.Available)
}

// Repository defines read operations over the catalog. CategoryID zero in
// ListProducts means no category filter.
type Repository interface {
	ListProducts(ctx context.Context, categoryID int64) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	SearchProducts(ctx context.Context, query string) ([]Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
}
