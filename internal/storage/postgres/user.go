package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdant/storefront/internal/domain/user"
)

const (
	getUserSQL = `SELECT id, email, username, created_at FROM users WHERE id = $1`

	getUserByUsernameSQL = `SELECT id, email, username, created_at FROM users WHERE username = $1`

	createUserSQL = `INSERT INTO users (email, username) VALUES ($1, $2)
		RETURNING id, email, username, created_at`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Get returns a user by ID, or user.ErrNotFound.
func (r *UserRepository) Get(ctx context.Context, id int64) (*user.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getUserSQL, id))
}

// GetByUsername returns a user by username, or user.ErrNotFound.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getUserByUsernameSQL, username))
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, email, username string) (*user.User, error) {
	u, err := r.scanOne(r.pool.QueryRow(ctx, createUserSQL, email, username))
	if err != nil {
		return nil, errors.Wrapf(err, "create user %q", username)
	}
	return u, nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
