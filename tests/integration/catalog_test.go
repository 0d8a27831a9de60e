//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant/storefront/internal/domain/catalog"
	"github.com/verdant/storefront/internal/domain/user"
	"github.com/verdant/storefront/internal/storage/postgres"
)

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewCatalogRepository(pool)

	phones := createCategory(t, "phones")
	audio := createCategory(t, "audio")
	proID := createProduct(t, "Vega Pro Max", "1199.00", 10, phones)
	createProduct(t, "Vega Mini", "599.00", 5, phones)
	budsID := createProduct(t, "Echo Buds", "129.00", 0, audio)

	t.Run("get product", func(t *testing.T) {
		p, err := repo.GetProduct(ctx, proID)
		require.NoError(t, err)
		assert.Equal(t, "Vega Pro Max", p.Name)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("1199.00")), "got %s", p.Price)
		assert.Equal(t, 10, p.Stock)
		assert.Equal(t, phones, p.CategoryID)
	})

	t.Run("get missing product", func(t *testing.T) {
		_, err := repo.GetProduct(ctx, 999999)

		var notFound *catalog.ProductNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, int64(999999), notFound.ProductID)
	})

	t.Run("list by category", func(t *testing.T) {
		products, err := repo.ListProducts(ctx, phones)
		require.NoError(t, err)
		require.Len(t, products, 2)
		for _, p := range products {
			assert.Equal(t, phones, p.CategoryID)
		}
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		products, err := repo.SearchProducts(ctx, "vega")
		require.NoError(t, err)
		assert.Len(t, products, 2)

		products, err = repo.SearchProducts(ctx, "ECHO")
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, budsID, products[0].ID)
	})

	t.Run("featured orders by price", func(t *testing.T) {
		products, err := repo.FeaturedProducts(ctx, 2)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.True(t, products[0].Price.GreaterThanOrEqual(products[1].Price))
	})

	t.Run("get missing category", func(t *testing.T) {
		_, err := repo.GetCategory(ctx, 999999)

		var notFound *catalog.CategoryNotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewUserRepository(pool)

	created, err := repo.Create(ctx, "mallory@example.com", "mallory")
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "mallory", got.Username)

	byName, err := repo.GetByUsername(ctx, "mallory")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.Get(ctx, 999999)
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, user.ErrNotFound)
}
