// Package user defines the identity contract the rest of the system treats
// as opaque. How a user authenticates is outside this repository.
package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a referenced user does not exist.
var ErrNotFound = errors.New("user not found")

// User is the current-user abstraction passed into per-user operations.
type User struct {
	ID        int64
	Email     string
	Username  string
	CreatedAt time.Time
}

// Repository resolves users from the store.
type Repository interface {
	Get(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, email, username string) (*User, error)
}
