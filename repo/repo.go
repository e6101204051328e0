// Package repo defines the storage-agnostic repository contracts and the
// error taxonomy shared by all backends.
package repo

import (
	"context"

	"github.com/wyverndb/wyvern/filter"
)

// Repository is the minimal CRUD and query contract over a single entity
// type. Every operation takes a context and may be called from any number
// of goroutines concurrently.
//
// Get, Update and Delete return ErrNotFound when no entity has the given
// id. Filter and Count reject malformed criteria with a ValidationError
// before touching storage.
type Repository[T any, ID any] interface {
	Create(ctx context.Context, entity T) (T, error)
	Get(ctx context.Context, id ID) (T, error)
	Update(ctx context.Context, id ID, entity T) (T, error)
	Delete(ctx context.Context, id ID) error
	Filter(ctx context.Context, criteria filter.FilterCriteria) ([]T, error)
	Count(ctx context.Context, criteria filter.FilterCriteria) (int64, error)
}

// Queryable extends Repository with pagination and existence checks.
type Queryable[T any, ID any] interface {
	Repository[T, ID]

	Paginate(ctx context.Context, criteria filter.FilterCriteria, p filter.Pagination) (filter.Page[T], error)
	Exists(ctx context.Context, criteria filter.FilterCriteria) (bool, error)
}
