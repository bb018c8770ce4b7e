package grocery

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"recipe-planner/internal/database"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func sampleEntry() RecipeEntry {
	return RecipeEntry{
		RecipeID: "r1",
		Title:    "Pancakes",
		Items: []Item{
			{ID: "i1", Name: "Flour", Quantity: "200", Unit: "g"},
			{ID: "i2", Name: "Milk", Quantity: "300", Unit: "mL"},
		},
	}
}

func TestUpsertAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "u1", sampleEntry()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	entries, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Title != "Pancakes" || len(entries[0].Items) != 2 {
		t.Errorf("Entry round-trip mismatch: %+v", entries[0])
	}
}

func TestUpsertReplacesExistingRecipe(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "u1", sampleEntry()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	updated := sampleEntry()
	updated.Items = updated.Items[:1]
	if err := repo.Upsert(ctx, "u1", updated); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	entries, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Re-adding a recipe duplicated it: %d entries", len(entries))
	}
	if len(entries[0].Items) != 1 {
		t.Errorf("Expected replaced items, got %+v", entries[0].Items)
	}
}

func TestGetMissingEntry(t *testing.T) {
	repo := newTestRepo(t)

	entry, err := repo.Get(context.Background(), "u1", "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry != nil {
		t.Errorf("Expected nil for missing entry, got %+v", entry)
	}
}

func TestSetItemChecked(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "u1", sampleEntry()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := repo.SetItemChecked(ctx, "u1", "r1", "i2", true); err != nil {
		t.Fatalf("SetItemChecked failed: %v", err)
	}

	entry, err := repo.Get(ctx, "u1", "r1")
	if err != nil || entry == nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Items[0].Checked || !entry.Items[1].Checked {
		t.Errorf("Checked flags = %v/%v, want false/true", entry.Items[0].Checked, entry.Items[1].Checked)
	}

	if err := repo.SetItemChecked(ctx, "u1", "r1", "missing", true); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Expected ErrItemNotFound for unknown item, got %v", err)
	}
	if err := repo.SetItemChecked(ctx, "u1", "missing", "i1", true); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Expected ErrItemNotFound for unknown recipe, got %v", err)
	}
}

func TestSetItemCheckedConcurrentToggles(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SQL.SetMaxOpenConns(1)
	repo := NewRepository(db.SQL)
	ctx := context.Background()

	entry := RecipeEntry{RecipeID: "r1", Title: "Stew"}
	for i := 0; i < 8; i++ {
		entry.Items = append(entry.Items, Item{ID: fmt.Sprintf("i%d", i), Name: fmt.Sprintf("Item %d", i)})
	}
	if err := repo.Upsert(ctx, "u1", entry); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	errs := make(chan error, len(entry.Items))
	var wg sync.WaitGroup
	for _, item := range entry.Items {
		wg.Add(1)
		go func(itemID string) {
			defer wg.Done()
			errs <- repo.SetItemChecked(ctx, "u1", "r1", itemID, true)
		}(item.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("SetItemChecked failed: %v", err)
		}
	}

	got, err := repo.Get(ctx, "u1", "r1")
	if err != nil || got == nil {
		t.Fatalf("Get failed: %v", err)
	}
	for _, item := range got.Items {
		if !item.Checked {
			t.Errorf("Item %s lost its update", item.ID)
		}
	}
}

func TestRemoveAndClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "u1", sampleEntry()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	other := sampleEntry()
	other.RecipeID = "r2"
	if err := repo.Upsert(ctx, "u1", other); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := repo.Remove(ctx, "u1", "r1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	entries, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].RecipeID != "r2" {
		t.Errorf("Entries after remove = %+v", entries)
	}

	if err := repo.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	entries, err = repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Basket not empty after clear: %+v", entries)
	}
}

func TestBasketScopedToUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "u1", sampleEntry()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	entries, err := repo.List(ctx, "u2")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Basket visible to a different user: %+v", entries)
	}
}
