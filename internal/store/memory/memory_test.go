package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func TestInsertAssignsSequentialIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.Insert(ctx, core.Transaction{Type: core.TypeIncome})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := s.Insert(ctx, core.Transaction{Type: core.TypeExpense})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if first == second {
		t.Errorf("ids not unique: %q", first)
	}

	got, err := s.Get(ctx, first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != first || got.Type != core.TypeIncome {
		t.Errorf("got %+v", got)
	}
}

func TestListByOwnerFiltersAndSorts(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	seed := []core.Transaction{
		{Type: core.TypeIncome, OwnerEmail: "alice@example.com", CreatedAt: base},
		{Type: core.TypeExpense, OwnerEmail: "alice@example.com", CreatedAt: base.Add(time.Hour)},
		{Type: core.TypeExpense, OwnerEmail: "alice@example.com", CreatedAt: base.Add(2 * time.Hour)},
		{Type: core.TypeIncome, OwnerEmail: "bob@example.com", CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, tx := range seed {
		if _, err := s.Insert(ctx, tx); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := s.ListByOwner(ctx, "alice@example.com", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Errorf("not sorted newest first at index %d", i)
		}
	}

	expenses, err := s.ListByOwner(ctx, "alice@example.com", core.TypeExpense)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 2 {
		t.Errorf("expense count = %d, want 2", len(expenses))
	}

	none, err := s.ListByOwner(ctx, "nobody@example.com", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", none)
	}
}

func TestUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Insert(ctx, core.Transaction{Type: core.TypeExpense, Amount: 10})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	updated := core.Transaction{ID: id, Type: core.TypeExpense, Amount: 25, Category: "Food"}
	if err := s.Update(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount != 25 || got.Category != "Food" {
		t.Errorf("got %+v", got)
	}

	if err := s.Update(ctx, core.Transaction{ID: "999"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update missing: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteRequiresOwnerMatch(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Insert(ctx, core.Transaction{OwnerEmail: "alice@example.com"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.Delete(ctx, id, "bob@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("wrong owner: err = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, id); err != nil {
		t.Errorf("transaction removed despite owner mismatch: %v", err)
	}

	if err := s.Delete(ctx, id, "alice@example.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, id, "alice@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("double delete: err = %v, want ErrNotFound", err)
	}
}
