//go:build integration

// Package integration runs the PostgreSQL repositories against a real
// database in a throwaway container. Run with:
//
//	go test -tags integration ./tests/integration/
package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/verdant/storefront/internal/storage/postgres"
)

var (
	pool *pgxpool.Pool

	uniq atomic.Int64
)

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "store",
				"POSTGRES_PASSWORD": "store",
				"POSTGRES_DB":       "store",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("start postgres container: %v", err)
	}
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("terminate container: %v", err)
		}
	}()

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		log.Fatalf("mapped port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://store:store@%s:%s/store?sslmode=disable", host, port.Port())

	pool, err = postgres.NewPool(ctx, dsn)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	// The migration is idempotent; a second pass must be a no-op.
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("re-run migrations: %v", err)
	}

	return m.Run()
}

// Fixture helpers. Every caller gets fresh rows so tests stay independent.

func createUser(t *testing.T) int64 {
	t.Helper()

	n := uniq.Add(1)
	repo := postgres.NewUserRepository(pool)
	u, err := repo.Create(context.Background(),
		fmt.Sprintf("user%d@example.com", n),
		fmt.Sprintf("user%d", n),
	)
	require.NoError(t, err)
	return u.ID
}

func createCategory(t *testing.T, name string) int64 {
	t.Helper()

	n := uniq.Add(1)
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`,
		fmt.Sprintf("%s-%d", name, n),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func createProduct(t *testing.T, name, price string, stock int, categoryID int64) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO products (name, description, price, stock, category_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		name, name+" description", decimal.RequireFromString(price), stock, categoryID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func productStock(t *testing.T, id int64) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(context.Background(),
		`SELECT stock FROM products WHERE id = $1`, id,
	).Scan(&stock)
	require.NoError(t, err)
	return stock
}
