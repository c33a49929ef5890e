package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repo interface {
	// Create inserts u and returns it with id and created_at set. A duplicate
	// email yields ErrEmailTaken.
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	EmailsByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}
