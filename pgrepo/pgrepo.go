// Package pgrepo implements the repository contracts on PostgreSQL via
// github.com/jackc/pgx/v5.
package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wyverndb/wyvern/filter"
	"github.com/wyverndb/wyvern/repo"
)

// Querier is the subset of *pgxpool.Pool and pgx.Tx the repository needs,
// so the same repository logic runs inside and outside a transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Schema maps an entity type to its table. Table and column names are
// trusted and interpolated as given.
//
// Columns lists the insertable/updatable columns, excluding the id column,
// and Values returns the entity's values in the same order. Rows are
// deserialized generically by column name, so the entity's fields (or
// their db struct tags) must match the table's columns.
type Schema[T any] struct {
	Table    string
	IDColumn string // defaults to "id"
	Columns  []string
	Values   func(T) []any
}

var _ repo.Queryable[struct{}, int64] = (*Repository[struct{}, int64])(nil)

// Repository is a PostgreSQL-backed repo.Queryable.
//
// It holds only the borrowed Querier handle and never retains or mutates
// the criteria it is given; every method is safe for concurrent use.
type Repository[T any, ID any] struct {
	db       Querier
	schema   Schema[T]
	compiler *filter.Compiler
}

// New creates a repository over db, typically a *pgxpool.Pool. Compiler
// options apply to every Filter, Count, Paginate and Exists call.
func New[T any, ID any](db Querier, schema Schema[T], options ...filter.Option) *Repository[T, ID] {
	if schema.IDColumn == "" {
		schema.IDColumn = "id"
	}
	return &Repository[T, ID]{
		db:       db,
		schema:   schema,
		compiler: filter.NewCompiler(options...),
	}
}

// WithTx returns a copy of the repository that runs against tx.
func (r *Repository[T, ID]) WithTx(tx pgx.Tx) *Repository[T, ID] {
	bound := *r
	bound.db = tx
	return &bound
}

// Create inserts the entity and returns the stored row, including any
// database-assigned defaults.
func (r *Repository[T, ID]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	placeholders := make([]string, len(r.schema.Columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		r.schema.Table,
		strings.Join(r.schema.Columns, ", "),
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.Query(ctx, query, r.schema.Values(entity)...)
	if err != nil {
		return zero, r.storageError("create", err)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, r.storageError("create", err)
	}
	return created, nil
}

// Get returns the entity with the given id, or repo.ErrNotFound.
func (r *Repository[T, ID]) Get(ctx context.Context, id ID) (T, error) {
	var zero T
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1", r.schema.Table, r.schema.IDColumn)

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return zero, r.storageError("get", r.withID(id, err))
	}
	entity, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, repo.ErrNotFound
	}
	if err != nil {
		return zero, r.storageError("get", r.withID(id, err))
	}
	return entity, nil
}

// Update replaces the entity with the given id and returns the stored row,
// or repo.ErrNotFound.
func (r *Repository[T, ID]) Update(ctx context.Context, id ID, entity T) (T, error) {
	var zero T
	assignments := make([]string, len(r.schema.Columns))
	for i, column := range r.schema.Columns {
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING *",
		r.schema.Table,
		strings.Join(assignments, ", "),
		r.schema.IDColumn,
		len(r.schema.Columns)+1,
	)
	args := append(r.schema.Values(entity), id)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return zero, r.storageError("update", r.withID(id, err))
	}
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, repo.ErrNotFound
	}
	if err != nil {
		return zero, r.storageError("update", r.withID(id, err))
	}
	return updated, nil
}

// Delete removes the entity with the given id, or returns repo.ErrNotFound.
func (r *Repository[T, ID]) Delete(ctx context.Context, id ID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.schema.Table, r.schema.IDColumn)

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return r.storageError("delete", r.withID(id, err))
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Filter returns all entities matching the criteria, in its sort order.
func (r *Repository[T, ID]) Filter(ctx context.Context, criteria filter.FilterCriteria) ([]T, error) {
	query, args, err := r.compiler.Compile(r.schema.Table, criteria)
	if err != nil {
		return nil, &repo.ValidationError{Err: err}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.storageError("filter", err)
	}
	entities, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, r.storageError("filter", err)
	}
	return entities, nil
}

// Count returns the number of entities matching the criteria.
func (r *Repository[T, ID]) Count(ctx context.Context, criteria filter.FilterCriteria) (int64, error) {
	query, args, err := r.compiler.CompileCount(r.schema.Table, criteria)
	if err != nil {
		return 0, &repo.ValidationError{Err: err}
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, r.storageError("count", err)
	}
	return count, nil
}

// Paginate runs the criteria as one page of results, overriding any limit
// and offset already set on it, and counts the full match for the page
// metadata.
func (r *Repository[T, ID]) Paginate(ctx context.Context, criteria filter.FilterCriteria, p filter.Pagination) (filter.Page[T], error) {
	total, err := r.Count(ctx, criteria)
	if err != nil {
		return filter.Page[T]{}, err
	}
	items, err := r.Filter(ctx, criteria.WithLimit(p.Limit()).WithOffset(p.Offset()))
	if err != nil {
		return filter.Page[T]{}, err
	}
	return filter.NewPage(items, p.Page, p.PerPage, total), nil
}

// Exists reports whether any entity matches the criteria.
func (r *Repository[T, ID]) Exists(ctx context.Context, criteria filter.FilterCriteria) (bool, error) {
	where, args, err := r.compiler.CompileWhere(criteria, 1)
	if err != nil {
		return false, &repo.ValidationError{Err: err}
	}
	query := "SELECT EXISTS (SELECT 1 FROM " + r.schema.Table
	if where != "" {
		query += " WHERE " + where
	}
	query += ")"

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, r.storageError("exists", err)
	}
	return exists, nil
}

func (r *Repository[T, ID]) storageError(op string, err error) error {
	return &repo.StorageError{Op: op, Table: r.schema.Table, Err: err}
}

func (r *Repository[T, ID]) withID(id ID, err error) error {
	return fmt.Errorf("id %v: %w", id, err)
}
