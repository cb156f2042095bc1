package crud

import "context"

// Resource is the generic CRUD controller exposed for entities.
//
//	GET    /<root>        List
//	POST   /<root>        Save
//	GET    /<root>/:id    Get
//	PATCH  /<root>/:id    Modify
//	PUT    /<root>/:id    Replace
//	DELETE /<root>/:id    Delete
type Resource[T any, ID comparable] struct {
	repo Repository[T, ID]
}

// NewResource creates a resource over repo.
func NewResource[T any, ID comparable](repo Repository[T, ID]) *Resource[T, ID] {
	return &Resource[T, ID]{repo: repo}
}

func (r *Resource[T, ID]) List(ctx context.Context, offset, limit int) ([]T, error) {
	if r.repo == nil {
		return nil, ErrNoRepository
	}
	offset, limit = page(offset, limit)
	return r.repo.Find(ctx, offset, limit)
}

func (r *Resource[T, ID]) Save(ctx context.Context, item *T) (*T, error) {
	if r.repo == nil {
		return nil, ErrNoRepository
	}
	return r.repo.Insert(ctx, item)
}

func (r *Resource[T, ID]) Get(ctx context.Context, id ID) (*T, error) {
	if r.repo == nil {
		return nil, ErrNoRepository
	}
	return r.repo.Get(ctx, id)
}

func (r *Resource[T, ID]) Modify(ctx context.Context, id ID, item *T) (*T, error) {
	if r.repo == nil {
		return nil, ErrNoRepository
	}
	return r.repo.Update(ctx, id, item)
}

func (r *Resource[T, ID]) Replace(ctx context.Context, id ID, item *T) (*T, error) {
	if r.repo == nil {
		return nil, ErrNoRepository
	}
	return r.repo.Replace(ctx, id, item)
}

func (r *Resource[T, ID]) Delete(ctx context.Context, id ID) error {
	if r.repo == nil {
		return ErrNoRepository
	}
	return r.repo.Delete(ctx, id)
}

// NestedResource is the generic controller for a one-to-many relation of P to T.
// It is mounted below the parent route as <parent>/:parentId/<relation>.
type NestedResource[P, T any, PID, ID comparable] struct {
	repo NestedRepository[T, PID, ID]
}

// NewNestedResource creates a nested resource over repo.
func NewNestedResource[P, T any, PID, ID comparable](repo NestedRepository[T, PID, ID]) *NestedResource[P, T, PID, ID] {
	return &NestedResource[P, T, PID, ID]{repo: repo}
}

func (r *NestedResource[P, T, PID, ID]) List(ctx context.Context, pid PID, offset, limit int) ([]T, error) {
	if r.repo == nil {
		return nil, ErrNoRepository
	}
	offset, limit = page(offset, limit)
	return r.repo.FindBy(ctx, pid, offset, limit)
}

func (r *NestedResource[P, T, PID, ID]) Save(ctx context.Context, pid PID, item *T) (*T, error) {
	if r.repo == nil {
		return nil, ErrNoRepository
	}
	return r.repo.InsertInto(ctx, pid, item)
}

func (r *NestedResource[P, T, PID, ID]) Get(ctx context.Context, pid PID, id ID) (*T, error) {
	if r.repo == nil {
		return nil, ErrNoRepository
	}
	return r.repo.GetBy(ctx, pid, id)
}

func (r *NestedResource[P, T, PID, ID]) Modify(ctx context.Context, pid PID, id ID, item *T) (*T, error) {
	if r.repo == nil {
		return nil, ErrNoRepository
	}
	return r.repo.UpdateIn(ctx, pid, id, item)
}

func (r *NestedResource[P, T, PID, ID]) Delete(ctx context.Context, pid PID, id ID) error {
	if r.repo == nil {
		return ErrNoRepository
	}
	return r.repo.DeleteFrom(ctx, pid, id)
}
