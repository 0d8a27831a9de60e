// Command seed-db loads the embedded catalog seed into PostgreSQL. It is
// idempotent: a database that already has categories is left untouched.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/verdant/storefront/db"
	"github.com/verdant/storefront/internal/storage/postgres"
)

const embeddedSeedPath = "seed/catalog.json.gz"

type seedFile struct {
	Categories []categoryJSON `json:"categories"`
	Products   []productJSON  `json:"products"`
	Users      []userJSON     `json:"users"`
}

type categoryJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type productJSON struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
}

type userJSON struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
		force       bool
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "", "path to a gzipped catalog JSON overriding the embedded seed")
	flag.BoolVar(&force, "force", false, "seed even when categories already exist")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath, force); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string, force bool) error {
	seed, err := loadSeed(seedPath)
	if err != nil {
		return errors.Wrap(err, "load seed")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if !force {
		var count int
		if err := pool.QueryRow(ctx, `SELECT count(*) FROM categories`).Scan(&count); err != nil {
			return errors.Wrap(err, "count categories")
		}
		if count > 0 {
			slog.Info("catalog already seeded, skipping", slog.Int("categories", count))
			return nil
		}
	}

	categoryIDs, err := seedCategories(ctx, pool, seed.Categories)
	if err != nil {
		return errors.Wrap(err, "seed categories")
	}

	if err := seedProducts(ctx, pool, seed.Products, categoryIDs); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedUsers(ctx, pool, seed.Users); err != nil {
		return errors.Wrap(err, "seed users")
	}

	return nil
}

// loadSeed reads the gzipped catalog JSON, from path when given or from
// the embedded copy otherwise.
func loadSeed(path string) (*seedFile, error) {
	var (
		raw io.ReadCloser
		err error
	)
	if path != "" {
		slog.Info("reading seed file", slog.String("path", path))
		raw, err = os.Open(path)
	} else {
		slog.Info("reading embedded seed")
		raw, err = db.SeedFS.Open(embeddedSeedPath)
	}
	if err != nil {
		return nil, errors.Wrap(err, "open seed")
	}
	defer raw.Close()

	gz, err := pgzip.NewReader(raw)
	if err != nil {
		return nil, errors.Wrap(err, "open gzip reader")
	}
	defer gz.Close()

	var seed seedFile
	if err := json.NewDecoder(gz).Decode(&seed); err != nil {
		return nil, errors.Wrap(err, "parse seed JSON")
	}
	return &seed, nil
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool, categories []categoryJSON) (map[string]int64, error) {
	slog.Info("upserting categories", slog.Int("count", len(categories)))

	ids := make(map[string]int64, len(categories))
	for _, c := range categories {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
			RETURNING id`,
			c.Name, c.Description,
		).Scan(&id)
		if err != nil {
			return nil, errors.Wrapf(err, "upsert category %s", c.Name)
		}
		ids[c.Name] = id

		slog.Info("upserted category", slog.String("name", c.Name), slog.Int64("id", id))
	}
	return ids, nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, products []productJSON, categoryIDs map[string]int64) error {
	slog.Info("inserting products", slog.Int("count", len(products)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, p := range products {
		categoryID, ok := categoryIDs[p.Category]
		if !ok {
			return errors.Errorf("product %s references unknown category %s", p.Name, p.Category)
		}

		g.Go(func() error {
			_, err := pool.Exec(ctx, `
				INSERT INTO products (name, description, price, image_url, stock, category_id)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				p.Name, p.Description, p.Price, p.ImageURL, p.Stock, categoryID,
			)
			if err != nil {
				return errors.Wrapf(err, "insert product %s", p.Name)
			}

			slog.Info("inserted product", slog.String("name", p.Name), slog.String("price", p.Price.String()))
			return nil
		})
	}

	return g.Wait()
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, users []userJSON) error {
	slog.Info("upserting users", slog.Int("count", len(users)))

	for _, u := range users {
		_, err := pool.Exec(ctx, `
			INSERT INTO users (email, username)
			VALUES ($1, $2)
			ON CONFLICT (email) DO NOTHING`,
			u.Email, u.Username,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert user %s", u.Username)
		}

		slog.Info("upserted user", slog.String("username", u.Username))
	}
	return nil
}
