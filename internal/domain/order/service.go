package order

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/verdant/storefront/internal/domain/cart"
	"github.com/verdant/storefront/internal/domain/catalog"
)

// CartSource is the slice of the cart manager the order processor needs.
type CartSource interface {
	Contents(ctx context.Context, userID int64) (*cart.Contents, error)
}

// Service is the order processor: it converts a cart into an order,
// snapshotting prices and decrementing stock atomically.
type Service struct {
	repo  Repository
	carts CartSource
}

// NewService creates an order processor.
func NewService(repo Repository, carts CartSource) *Service {
	return &Service{repo: repo, carts: carts}
}

// CreateOrderFromCart checks out the user's cart.
//
// The stock re-validation here exists because stock may have changed since
// items were added; it names the first violating product. The repository
// then performs the actual decrement conditionally inside the transaction,
// so a concurrent checkout that wins the race surfaces the same error
// instead of overselling.
func (s *Service) CreateOrderFromCart(ctx context.Context, userID int64) (*Order, error) {
	contents, err := s.carts.Contents(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if contents.Empty() {
		return nil, ErrCartEmpty
	}

	for _, line := range contents.Lines {
		if !line.Product.CanFulfill(line.Item.Quantity) {
			return nil, &catalog.InsufficientStockError{
				Product:   line.Product.Name,
				Requested: line.Item.Quantity,
				Available: line.Product.Stock,
			}
		}
	}

	o := &Order{
		UserID: userID,
		Total:  contents.TotalAmount(),
		Status: StatusPending,
		Items:  make([]Item, 0, len(contents.Lines)),
	}
	for _, line := range contents.Lines {
		o.Items = append(o.Items, Item{
			ProductID: line.Item.ProductID,
			Quantity:  line.Item.Quantity,
			Price:     line.Product.Price,
		})
	}

	if err := s.repo.Create(ctx, o, contents.Cart.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// GetUserOrders returns all orders for a user, newest first, with items
// populated.
func (s *Service) GetUserOrders(ctx context.Context, userID int64) ([]Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// GetOrder returns a single order, or (nil, nil) when it does not exist.
func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// UpdateStatus overwrites an order's status and returns the updated order,
// or (nil, nil) when the order does not exist. No transition graph is
// enforced.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	return s.repo.UpdateStatus(ctx, id, status)
}
