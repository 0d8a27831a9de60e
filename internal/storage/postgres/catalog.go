package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdant/storefront/internal/domain/catalog"
)

const productColumns = `id, name, description, price, image_url, stock, category_id, created_at, updated_at`

const (
	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY id`

	listProductsByCategorySQL = `SELECT ` + productColumns + ` FROM products
		WHERE category_id = $1 ORDER BY id`

	getProductSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	searchProductsSQL = `SELECT ` + productColumns + ` FROM products
		WHERE name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		ORDER BY id`

	featuredProductsSQL = `SELECT ` + productColumns + ` FROM products
		ORDER BY price DESC, id LIMIT $1`

	listCategoriesSQL = `SELECT id, name, description, created_at FROM categories ORDER BY id`

	getCategorySQL = `SELECT id, name, description, created_at FROM categories WHERE id = $1`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ListProducts returns the catalog ordered by ID, optionally filtered by
// category. categoryID zero means no filter.
func (r *CatalogRepository) ListProducts(ctx context.Context, categoryID int64) ([]catalog.Product, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if categoryID == 0 {
		rows, err = r.pool.Query(ctx, listProductsSQL)
	} else {
		rows, err = r.pool.Query(ctx, listProductsByCategorySQL, categoryID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetProduct returns a single product by its identifier.
func (r *CatalogRepository) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &catalog.ProductNotFoundError{ProductID: id}
		}
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &p, nil
}

// SearchProducts matches the query as a case-insensitive substring of the
// product name or description.
func (r *CatalogRepository) SearchProducts(ctx context.Context, query string) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, searchProductsSQL, query)
	if err != nil {
		return nil, errors.Wrap(err, "search products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// FeaturedProducts returns the top products by price descending.
func (r *CatalogRepository) FeaturedProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, featuredProductsSQL, limit)
	if err != nil {
		return nil, errors.Wrap(err, "featured products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListCategories returns all categories ordered by ID.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return pgx.CollectRows(rows, scanCategory)
}

// GetCategory returns a single category by its identifier.
func (r *CatalogRepository) GetCategory(ctx context.Context, id int64) (*catalog.Category, error) {
	rows, err := r.pool.Query(ctx, getCategorySQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get category %d", id)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &catalog.CategoryNotFoundError{CategoryID: id}
		}
		return nil, errors.Wrapf(err, "get category %d", id)
	}
	return &c, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
		&p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func scanCategory(row pgx.CollectableRow) (catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	return c, err
}
