package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/verdant/storefront/internal/domain/catalog"
)

// Service is the cart manager. Stock checks read the product's live stock at
// the instant of the call; they are advisory against other concurrent carts.
// The real guarantee is enforced by the conditional decrement at checkout.
type Service struct {
	repo     Repository
	products ProductSource
}

// NewService creates a cart manager.
func NewService(repo Repository, products ProductSource) *Service {
	return &Service{repo: repo, products: products}
}

// GetOrCreateCart returns the user's cart, creating an empty one on first
// access. Idempotent: the storage layer upserts against a unique user
// constraint, so concurrent calls converge on one cart.
func (s *Service) GetOrCreateCart(ctx context.Context, userID int64) (*Cart, error) {
	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "get or create cart")
	}
	return c, nil
}

// AddItem puts quantity units of a product into the user's cart. When the
// product is already present the quantities merge into the existing row. The
// merged quantity is validated against current stock.
func (s *Service) AddItem(ctx context.Context, userID, productID int64, quantity int) (*Item, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.CanFulfill(quantity) {
		return nil, insufficientStock(product.Name, quantity, product.Stock)
	}

	c, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetItem(ctx, c.ID, productID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart item")
	}

	merged := quantity
	if existing != nil {
		merged += existing.Quantity
		if !product.CanFulfill(merged) {
			return nil, insufficientStock(product.Name, merged, product.Stock)
		}
	}

	item, err := s.repo.UpsertItem(ctx, c.ID, productID, merged)
	if err != nil {
		return nil, errors.Wrap(err, "upsert cart item")
	}
	return item, nil
}

// SetItemQuantity overwrites the stored quantity for a product in the cart.
// A non-positive quantity removes the item (no-op when absent). It returns
// the updated item, or nil when the item was removed or never existed.
func (s *Service) SetItemQuantity(ctx context.Context, userID, productID int64, quantity int) (*Item, error) {
	c, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if _, err := s.repo.DeleteItem(ctx, c.ID, productID); err != nil {
			return nil, errors.Wrap(err, "delete cart item")
		}
		return nil, nil
	}

	existing, err := s.repo.GetItem(ctx, c.ID, productID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart item")
	}
	if existing == nil {
		return nil, nil
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.CanFulfill(quantity) {
		return nil, insufficientStock(product.Name, quantity, product.Stock)
	}

	item, err := s.repo.UpsertItem(ctx, c.ID, productID, quantity)
	if err != nil {
		return nil, errors.Wrap(err, "upsert cart item")
	}
	return item, nil
}

// RemoveItem deletes a product from the cart and reports whether a removal
// occurred.
func (s *Service) RemoveItem(ctx context.Context, userID, productID int64) (bool, error) {
	c, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return false, err
	}

	removed, err := s.repo.DeleteItem(ctx, c.ID, productID)
	if err != nil {
		return false, errors.Wrap(err, "delete cart item")
	}
	return removed, nil
}

// Clear removes all items from the user's cart. Idempotent.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	c, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, c.ID); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

// Contents returns the cart with its lines populated in one composed read.
// Totals are derived from live product prices.
func (s *Service) Contents(ctx context.Context, userID int64) (*Contents, error) {
	c, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.Lines(ctx, c.ID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart lines")
	}
	return &Contents{Cart: *c, Lines: lines}, nil
}

func insufficientStock(name string, requested, available int) error {
	return &catalog.InsufficientStockError{
		Product:   name,
		Requested: requested,
		Available: available,
	}
}
