package catalog

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// DefaultFeaturedLimit is the number of products returned by Featured when
// the configured limit is not positive.
const DefaultFeaturedLimit = 8

// Service is the read-only query facade over the catalog repository.
// Each call is independent; search and category filters are never combined.
type Service struct {
	repo          Repository
	featuredLimit int
}

// NewService creates the catalog facade. featuredLimit <= 0 selects
// DefaultFeaturedLimit.
func NewService(repo Repository, featuredLimit int) *Service {
	if featuredLimit <= 0 {
		featuredLimit = DefaultFeaturedLimit
	}
	return &Service{repo: repo, featuredLimit: featuredLimit}
}

// Products lists the catalog, optionally filtered by category. categoryID
// zero means all products.
func (s *Service) Products(ctx context.Context, categoryID int64) ([]Product, error) {
	products, err := s.repo.ListProducts(ctx, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

// Product returns a single product or *ProductNotFoundError.
func (s *Service) Product(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// Search performs a case-insensitive unanchored substring match over product
// name and description. Whitespace-only queries return the full catalog,
// matching the behavior of an empty filter.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Products(ctx, 0)
	}
	products, err := s.repo.SearchProducts(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "search products")
	}
	return products, nil
}

// Featured returns the highest-priced products for promotional display.
// limit <= 0 selects the configured default.
func (s *Service) Featured(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = s.featuredLimit
	}
	products, err := s.repo.FeaturedProducts(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "featured products")
	}
	return products, nil
}

// Categories lists all categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

// Category returns a single category or *CategoryNotFoundError.
func (s *Service) Category(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}
