// Package memrepo implements the repository contracts on an in-memory map.
// It mirrors the semantics of the SQL backend, including the error
// taxonomy, and is primarily meant for tests and prototyping.
package memrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wyverndb/wyvern/filter"
	"github.com/wyverndb/wyvern/repo"
)

// Config maps an entity type into the store.
//
// Identity extracts the entity's id. Fields exposes the entity as a
// column-name-to-value map for condition evaluation and sorting; the keys
// play the role of the SQL columns.
type Config[T any, ID comparable] struct {
	Identity func(T) ID
	Fields   func(T) map[string]any
}

// Store is an in-memory repo.Queryable. Safe for concurrent use.
type Store[T any, ID comparable] struct {
	mu       sync.RWMutex
	entities map[ID]T
	order    []ID // insertion order, the unsorted result order
	config   Config[T, ID]
}

var _ repo.Queryable[struct{}, int64] = (*Store[struct{}, int64])(nil)

// New creates an empty store.
func New[T any, ID comparable](config Config[T, ID]) *Store[T, ID] {
	return &Store[T, ID]{
		entities: make(map[ID]T),
		config:   config,
	}
}

// Create stores the entity under its own identity.
func (s *Store[T, ID]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	id := s.config.Identity(entity)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entities[id]; exists {
		return zero, &repo.StorageError{Op: "create", Table: "memory", Err: errors.New("duplicate id")}
	}
	s.entities[id] = entity
	s.order = append(s.order, id)
	return entity, nil
}

// Get returns the entity with the given id, or repo.ErrNotFound.
func (s *Store[T, ID]) Get(ctx context.Context, id ID) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, exists := s.entities[id]
	if !exists {
		return zero, repo.ErrNotFound
	}
	return entity, nil
}

// Update replaces the entity with the given id, or returns
// repo.ErrNotFound.
func (s *Store[T, ID]) Update(ctx context.Context, id ID, entity T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entities[id]; !exists {
		return zero, repo.ErrNotFound
	}
	s.entities[id] = entity
	return entity, nil
}

// Delete removes the entity with the given id, or returns
// repo.ErrNotFound.
func (s *Store[T, ID]) Delete(ctx context.Context, id ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entities[id]; !exists {
		return repo.ErrNotFound
	}
	delete(s.entities, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Filter returns all entities matching the criteria, in its sort order.
func (s *Store[T, ID]) Filter(ctx context.Context, criteria filter.FilterCriteria) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := filter.Validate(criteria); err != nil {
		return nil, &repo.ValidationError{Err: err}
	}

	matched := s.match(criteria.Conditions)
	s.sort(matched, criteria.Sorts)

	if criteria.Offset != nil {
		if *criteria.Offset >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[*criteria.Offset:]
		}
	}
	if criteria.Limit != nil && *criteria.Limit < int64(len(matched)) {
		matched = matched[:*criteria.Limit]
	}
	return matched, nil
}

// Count returns the number of entities matching the criteria, ignoring
// its limit and offset.
func (s *Store[T, ID]) Count(ctx context.Context, criteria filter.FilterCriteria) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := filter.Validate(criteria); err != nil {
		return 0, &repo.ValidationError{Err: err}
	}
	return int64(len(s.match(criteria.Conditions))), nil
}

// Paginate runs the criteria as one page of results, overriding any limit
// and offset already set on it.
func (s *Store[T, ID]) Paginate(ctx context.Context, criteria filter.FilterCriteria, p filter.Pagination) (filter.Page[T], error) {
	total, err := s.Count(ctx, criteria)
	if err != nil {
		return filter.Page[T]{}, err
	}
	items, err := s.Filter(ctx, criteria.WithLimit(p.Limit()).WithOffset(p.Offset()))
	if err != nil {
		return filter.Page[T]{}, err
	}
	return filter.NewPage(items, p.Page, p.PerPage, total), nil
}

// Exists reports whether any entity matches the criteria.
func (s *Store[T, ID]) Exists(ctx context.Context, criteria filter.FilterCriteria) (bool, error) {
	count, err := s.Count(ctx, criteria)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store[T, ID]) match(conditions []filter.Condition) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []T
	for _, id := range s.order {
		entity := s.entities[id]
		fields := s.config.Fields(entity)
		all := true
		for _, cond := range conditions {
			if !evalCondition(fields[cond.Field], cond) {
				all = false
				break
			}
		}
		if all {
			matched = append(matched, entity)
		}
	}
	return matched
}

func (s *Store[T, ID]) sort(entities []T, sorts []filter.SortOrder) {
	if len(sorts) == 0 {
		return
	}
	sort.SliceStable(entities, func(i, j int) bool {
		a := s.config.Fields(entities[i])
		b := s.config.Fields(entities[j])
		for _, order := range sorts {
			cmp, ok := compareValues(a[order.Field], b[order.Field])
			if !ok || cmp == 0 {
				continue
			}
			if order.Direction == filter.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}
