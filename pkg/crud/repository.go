package crud

import (
	"context"
	"errors"
)

var (
	ErrNoRepository = errors.New("crud: repository is not configured")
	ErrNotFound     = errors.New("crud: entity not found")
)

// Repository stores entities of type T identified by ID.
// Persistence is up to the application; the templates only delegate.
type Repository[T any, ID comparable] interface {
	Find(ctx context.Context, offset, limit int) ([]T, error)
	Get(ctx context.Context, id ID) (*T, error)
	Insert(ctx context.Context, item *T) (*T, error)
	// Update applies the non-zero fields of item.
	Update(ctx context.Context, id ID, item *T) (*T, error)
	Replace(ctx context.Context, id ID, item *T) (*T, error)
	Delete(ctx context.Context, id ID) error
}

// NestedRepository stores entities of type T that belong to a parent identified by PID.
type NestedRepository[T any, PID, ID comparable] interface {
	FindBy(ctx context.Context, parentID PID, offset, limit int) ([]T, error)
	GetBy(ctx context.Context, parentID PID, id ID) (*T, error)
	InsertInto(ctx context.Context, parentID PID, item *T) (*T, error)
	UpdateIn(ctx context.Context, parentID PID, id ID, item *T) (*T, error)
	DeleteFrom(ctx context.Context, parentID PID, id ID) error
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

func page(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return offset, limit
}
