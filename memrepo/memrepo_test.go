package memrepo_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/wyverndb/wyvern/filter"
	"github.com/wyverndb/wyvern/memrepo"
	"github.com/wyverndb/wyvern/repo"
)

type player struct {
	ID        uuid.UUID
	Name      string
	Level     int
	Banned    bool
	DeletedAt *string
}

func newPlayerStore() *memrepo.Store[player, uuid.UUID] {
	return memrepo.New(memrepo.Config[player, uuid.UUID]{
		Identity: func(p player) uuid.UUID { return p.ID },
		Fields: func(p player) map[string]any {
			fields := map[string]any{
				"id":     p.ID.String(),
				"name":   p.Name,
				"level":  p.Level,
				"banned": p.Banned,
			}
			if p.DeletedAt != nil {
				fields["deleted_at"] = *p.DeletedAt
			} else {
				fields["deleted_at"] = nil
			}
			return fields
		},
	})
}

func seedPlayers(t *testing.T, store *memrepo.Store[player, uuid.UUID], players []player) {
	t.Helper()
	for _, p := range players {
		if _, err := store.Create(context.Background(), p); err != nil {
			t.Fatalf("Create(%s) error = %v", p.Name, err)
		}
	}
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := newPlayerStore()

	p := player{ID: uuid.New(), Name: "John", Level: 3}
	created, err := store.Create(ctx, p)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if diff := cmp.Diff(p, created); diff != "" {
		t.Errorf("Create() mismatch (-want +got):\n%s", diff)
	}

	if _, err := store.Create(ctx, p); err == nil {
		t.Error("Create() with duplicate id error = nil")
	} else {
		var sErr *repo.StorageError
		if !errors.As(err, &sErr) {
			t.Errorf("Create() with duplicate id error = %v, want *StorageError", err)
		}
	}

	got, err := store.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	p.Level = 4
	updated, err := store.Update(ctx, p.ID, p)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Level != 4 {
		t.Errorf("Update() level = %d, want 4", updated.Level)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := store.Get(ctx, p.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := store.Update(ctx, p.ID, p); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("Update() on missing id error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, p.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("Delete() on missing id error = %v, want ErrNotFound", err)
	}
}

func TestStore_Filter(t *testing.T) {
	deleted := "2024-05-01T00:00:00Z"
	players := []player{
		{ID: uuid.New(), Name: "Alice", Level: 10},
		{ID: uuid.New(), Name: "Bob", Level: 3, Banned: true},
		{ID: uuid.New(), Name: "Carol", Level: 25},
		{ID: uuid.New(), Name: "Charlie", Level: 7, DeletedAt: &deleted},
	}

	names := func(ps []player) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}

	tests := []struct {
		name     string
		criteria filter.FilterCriteria
		want     []string
	}{
		{
			"no conditions keeps insertion order",
			filter.New(),
			[]string{"Alice", "Bob", "Carol", "Charlie"},
		},
		{
			"equality",
			filter.New().WithCondition(filter.Eq("name", "Bob")),
			[]string{"Bob"},
		},
		{
			"numeric comparison across kinds",
			filter.New().WithCondition(filter.Gte("level", int64(7))),
			[]string{"Alice", "Carol", "Charlie"},
		},
		{
			"boolean condition",
			filter.New().WithCondition(filter.Eq("banned", false)),
			[]string{"Alice", "Carol", "Charlie"},
		},
		{
			"like pattern",
			filter.New().WithCondition(filter.Like("name", "C%l")),
			[]string{"Carol"},
		},
		{
			"not like pattern",
			filter.New().WithCondition(filter.NotLike("name", "%li%")),
			[]string{"Bob", "Carol"},
		},
		{
			"in list",
			filter.New().WithCondition(filter.In("name", "Bob", "Carol", "Dave")),
			[]string{"Bob", "Carol"},
		},
		{
			"not in list",
			filter.New().WithCondition(filter.NotIn("name", "Bob", "Carol")),
			[]string{"Alice", "Charlie"},
		},
		{
			"is null",
			filter.New().WithCondition(filter.IsNull("deleted_at")),
			[]string{"Alice", "Bob", "Carol"},
		},
		{
			"is not null",
			filter.New().WithCondition(filter.IsNotNull("deleted_at")),
			[]string{"Charlie"},
		},
		{
			"conditions are and-joined",
			filter.New().
				WithCondition(filter.Gt("level", 5)).
				WithCondition(filter.Like("name", "A%")),
			[]string{"Alice"},
		},
		{
			"sort descending",
			filter.New().WithSort(filter.Desc("level")),
			[]string{"Carol", "Alice", "Charlie", "Bob"},
		},
		{
			"sort ascending by name",
			filter.New().WithSort(filter.Asc("name")),
			[]string{"Alice", "Bob", "Carol", "Charlie"},
		},
		{
			"limit and offset after sort",
			filter.New().WithSort(filter.Asc("level")).WithLimit(2).WithOffset(1),
			[]string{"Charlie", "Alice"},
		},
		{
			"offset past the end",
			filter.New().WithOffset(10),
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newPlayerStore()
			seedPlayers(t, store, players)

			got, err := store.Filter(context.Background(), tt.criteria)
			if err != nil {
				t.Fatalf("Filter() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_Filter_invalidCriteria(t *testing.T) {
	store := newPlayerStore()

	_, err := store.Filter(context.Background(), filter.New().WithCondition(filter.In("name")))
	var vErr *repo.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Filter() error = %v, want *ValidationError", err)
	}
	var condErr filter.InvalidConditionError
	if !errors.As(err, &condErr) {
		t.Errorf("Filter() error does not unwrap to InvalidConditionError: %v", err)
	}
}

func TestStore_Count_ignoresPagination(t *testing.T) {
	store := newPlayerStore()
	seedPlayers(t, store, []player{
		{ID: uuid.New(), Name: "Alice", Level: 10},
		{ID: uuid.New(), Name: "Bob", Level: 3},
		{ID: uuid.New(), Name: "Carol", Level: 25},
	})

	count, err := store.Count(context.Background(), filter.New().WithLimit(1))
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestStore_Paginate(t *testing.T) {
	store := newPlayerStore()
	var players []player
	for i := 1; i <= 5; i++ {
		players = append(players, player{ID: uuid.New(), Name: fmt.Sprintf("P%d", i), Level: i})
	}
	seedPlayers(t, store, players)

	page, err := store.Paginate(context.Background(),
		filter.New().WithSort(filter.Asc("level")),
		filter.Pagination{Page: 2, PerPage: 2},
	)
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	if page.TotalItems != 5 || page.TotalPages != 3 {
		t.Errorf("Paginate() totals = %d items, %d pages, want 5 and 3", page.TotalItems, page.TotalPages)
	}
	if len(page.Items) != 2 || page.Items[0].Name != "P3" || page.Items[1].Name != "P4" {
		t.Errorf("Paginate() items = %v", page.Items)
	}
	if !page.HasNext() || !page.HasPrevious() {
		t.Errorf("Paginate() HasNext() = %v, HasPrevious() = %v, want both true", page.HasNext(), page.HasPrevious())
	}
}

func TestStore_Exists(t *testing.T) {
	store := newPlayerStore()
	seedPlayers(t, store, []player{{ID: uuid.New(), Name: "Alice", Level: 10}})

	exists, err := store.Exists(context.Background(), filter.New().WithCondition(filter.Eq("name", "Alice")))
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for a matching entity")
	}

	exists, err = store.Exists(context.Background(), filter.New().WithCondition(filter.Eq("name", "Zed")))
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true without matching entities")
	}
}

func TestStore_concurrentAccess(t *testing.T) {
	store := newPlayerStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := player{ID: uuid.New(), Name: fmt.Sprintf("P%d", i), Level: i}
			if _, err := store.Create(ctx, p); err != nil {
				t.Errorf("Create() error = %v", err)
				return
			}
			if _, err := store.Filter(ctx, filter.New().WithCondition(filter.Gte("level", 0))); err != nil {
				t.Errorf("Filter() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	count, err := store.Count(ctx, filter.New())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 50 {
		t.Errorf("Count() = %d, want 50", count)
	}
}
