package documents

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

type Repo interface {
	Create(ctx context.Context, d Document) (Document, error)
	GetByID(ctx context.Context, id int64) (Document, error)
	SetSize(ctx context.Context, id int64, size int64) error
}
