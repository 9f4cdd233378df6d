package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInsertAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	id, err := repo.Insert(ctx, core.Transaction{
		Type:        core.TypeExpense,
		Amount:      42.5,
		Description: "groceries",
		Category:    "Food",
		Date:        "2024-05-01",
		OwnerEmail:  "alice@example.com",
		OwnerName:   "Alice",
		CreatedAt:   created,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != id || got.Type != core.TypeExpense || got.Amount != 42.5 ||
		got.Description != "groceries" || got.Category != "Food" ||
		got.Date != "2024-05-01" || got.OwnerEmail != "alice@example.com" {
		t.Errorf("got %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created)
	}
}

func TestGetNotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "12345"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing row: err = %v, want ErrNotFound", err)
	}
	if _, err := repo.Get(ctx, "not-a-number"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("malformed id: err = %v, want ErrNotFound", err)
	}
}

func TestListByOwner(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	seed := []core.Transaction{
		{Type: core.TypeIncome, OwnerEmail: "alice@example.com", CreatedAt: base},
		{Type: core.TypeExpense, OwnerEmail: "alice@example.com", CreatedAt: base.Add(time.Hour)},
		{Type: core.TypeIncome, OwnerEmail: "bob@example.com", CreatedAt: base},
	}
	for _, tx := range seed {
		if _, err := repo.Insert(ctx, tx); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := repo.ListByOwner(ctx, "alice@example.com", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].Type != core.TypeExpense {
		t.Errorf("first row = %+v, want newest (expense)", all[0])
	}

	incomes, err := repo.ListByOwner(ctx, "alice@example.com", core.TypeIncome)
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(incomes) != 1 || incomes[0].Type != core.TypeIncome {
		t.Errorf("filtered = %+v", incomes)
	}

	none, err := repo.ListByOwner(ctx, "nobody@example.com", "")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", none)
	}
}

func TestListByOwnerSubSecondOrdering(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	// Fractional seconds where a trimmed encoding would sort ".5" after
	// ".52" lexicographically.
	older, err := repo.Insert(ctx, core.Transaction{
		OwnerEmail: "alice@example.com",
		CreatedAt:  base.Add(500 * time.Millisecond),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	newer, err := repo.Insert(ctx, core.Transaction{
		OwnerEmail: "alice@example.com",
		CreatedAt:  base.Add(520 * time.Millisecond),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	txs, err := repo.ListByOwner(ctx, "alice@example.com", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d, want 2", len(txs))
	}
	if txs[0].ID != newer || txs[1].ID != older {
		t.Errorf("order = [%s %s], want newest-first [%s %s]", txs[0].ID, txs[1].ID, newer, older)
	}
}

func TestUpdateTransaction(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, core.Transaction{
		Type:       core.TypeExpense,
		Amount:     10,
		OwnerEmail: "alice@example.com",
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	err = repo.Update(ctx, core.Transaction{
		ID:       id,
		Type:     core.TypeExpense,
		Amount:   25,
		Category: "Food",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount != 25 || got.Category != "Food" {
		t.Errorf("got %+v", got)
	}
	// Owner survives update untouched.
	if got.OwnerEmail != "alice@example.com" {
		t.Errorf("owner changed: %q", got.OwnerEmail)
	}

	if err := repo.Update(ctx, core.Transaction{ID: "999"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update missing: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDoubleKeyed(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, core.Transaction{OwnerEmail: "alice@example.com", CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.Delete(ctx, id, "bob@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("wrong owner: err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, id, "alice@example.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestSyncStatusLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.Insert(ctx, core.Transaction{OwnerEmail: "alice@example.com", CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := repo.Insert(ctx, core.Transaction{OwnerEmail: "alice@example.com", CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	pending, err := repo.PendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending sync: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %v, want both rows", pending)
	}

	if err := repo.MarkSynced(ctx, first); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err = repo.PendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending sync: %v", err)
	}
	if len(pending) != 1 || pending[0] != second {
		t.Errorf("pending = %v, want only %q", pending, second)
	}

	// An update re-queues the row for export.
	tx, err := repo.Get(ctx, first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := repo.Update(ctx, tx); err != nil {
		t.Fatalf("update: %v", err)
	}
	pending, err = repo.PendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending sync: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("pending after update = %v, want both rows", pending)
	}

	if err := repo.MarkSyncError(ctx, second); err != nil {
		t.Fatalf("mark sync error: %v", err)
	}
}
