package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/verdant/storefront/internal/domain/cart"
	"github.com/verdant/storefront/internal/domain/catalog"
	"github.com/verdant/storefront/internal/domain/order"
)

// View types are the JSON shapes returned to clients. Money fields use
// decimal's default quoted-string encoding to avoid float drift.

type productView struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Stock       int             `json:"stock"`
	CategoryID  int64           `json:"category_id"`
	InStock     bool            `json:"in_stock"`
}

type categoryView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type cartLineView struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Items       []cartLineView  `json:"items"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type cartItemView struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type orderItemView struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type orderView struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	Items     []orderItemView `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

func toProductView(p catalog.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		InStock:     p.InStock(),
	}
}

func toProductViews(products []catalog.Product) []productView {
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = toProductView(p)
	}
	return views
}

func toCategoryView(c catalog.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Description: c.Description}
}

func toCartView(c *cart.Contents) cartView {
	items := make([]cartLineView, len(c.Lines))
	for i, l := range c.Lines {
		items[i] = cartLineView{
			ProductID: l.Item.ProductID,
			Name:      l.Product.Name,
			Price:     l.Product.Price,
			Quantity:  l.Item.Quantity,
			Subtotal:  l.Subtotal(),
		}
	}
	return cartView{
		ID:          c.Cart.ID,
		UserID:      c.Cart.UserID,
		Items:       items,
		TotalItems:  c.TotalItems(),
		TotalAmount: c.TotalAmount(),
	}
}

func toOrderView(o *order.Order) orderView {
	items := make([]orderItemView, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemView{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal(),
		}
	}
	return orderView{
		ID:        o.ID,
		UserID:    o.UserID,
		Total:     o.Total,
		Status:    string(o.Status),
		Items:     items,
		CreatedAt: o.CreatedAt,
	}
}
