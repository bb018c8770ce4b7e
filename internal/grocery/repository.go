package grocery

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ErrItemNotFound is returned when a checked-state update references an item
// that is not in the basket.
var ErrItemNotFound = fmt.Errorf("grocery item not found")

// Repository handles persistence of the grocery basket. The table keys
// entries by (user_id, recipe_id), so the one-entry-per-recipe invariant the
// aggregation step relies on is enforced by the schema.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new grocery basket repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Upsert adds a recipe entry to the basket, replacing any existing entry for
// the same recipe id.
func (r *Repository) Upsert(ctx context.Context, userID string, entry RecipeEntry) error {
	itemsJSON, err := json.Marshal(entry.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal basket items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO grocery_recipes (user_id, recipe_id, title, items, added_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, recipe_id) DO UPDATE SET
			title = excluded.title,
			items = excluded.items`,
		userID, entry.RecipeID, entry.Title, string(itemsJSON), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert basket entry: %w", err)
	}
	return nil
}

// List returns the user's basket entries in the order they were added.
func (r *Repository) List(ctx context.Context, userID string) ([]RecipeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT recipe_id, title, items
		FROM grocery_recipes
		WHERE user_id = ?
		ORDER BY added_at, recipe_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list basket entries: %w", err)
	}
	defer rows.Close()

	var entries []RecipeEntry
	for rows.Next() {
		var entry RecipeEntry
		var itemsJSON string
		if err := rows.Scan(&entry.RecipeID, &entry.Title, &itemsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan basket entry: %w", err)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &entry.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal basket items for recipe %s: %w", entry.RecipeID, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Get retrieves a single basket entry, or nil if the recipe is not in the
// basket.
func (r *Repository) Get(ctx context.Context, userID, recipeID string) (*RecipeEntry, error) {
	var entry RecipeEntry
	var itemsJSON string
	err := r.db.QueryRowContext(ctx, `
		SELECT recipe_id, title, items
		FROM grocery_recipes
		WHERE user_id = ? AND recipe_id = ?`, userID, recipeID).
		Scan(&entry.RecipeID, &entry.Title, &itemsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get basket entry: %w", err)
	}
	if err := json.Unmarshal([]byte(itemsJSON), &entry.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal basket items for recipe %s: %w", recipeID, err)
	}
	return &entry, nil
}

// Remove deletes one recipe's entry (and all its item lines) from the basket.
func (r *Repository) Remove(ctx context.Context, userID, recipeID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM grocery_recipes WHERE user_id = ? AND recipe_id = ?`,
		userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to remove basket entry: %w", err)
	}
	return nil
}

// SetItemChecked updates the checked state of a single item line. Items live
// inside the entry's JSON column, so the read-modify-write runs in one
// transaction to keep concurrent toggles from dropping each other's updates.
func (r *Repository) SetItemChecked(ctx context.Context, userID, recipeID, itemID string, checked bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin basket transaction: %w", err)
	}
	defer tx.Rollback()

	var itemsJSON string
	err = tx.QueryRowContext(ctx, `
		SELECT items
		FROM grocery_recipes
		WHERE user_id = ? AND recipe_id = ?`, userID, recipeID).Scan(&itemsJSON)
	if err == sql.ErrNoRows {
		return ErrItemNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get basket entry: %w", err)
	}

	var items []Item
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return fmt.Errorf("failed to unmarshal basket items for recipe %s: %w", recipeID, err)
	}

	found := false
	for i := range items {
		if items[i].ID == itemID {
			items[i].Checked = checked
			found = true
			break
		}
	}
	if !found {
		return ErrItemNotFound
	}

	updated, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal basket items: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE grocery_recipes SET items = ?
		WHERE user_id = ? AND recipe_id = ?`,
		string(updated), userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to update basket items: %w", err)
	}
	return tx.Commit()
}

// Clear empties the user's basket.
func (r *Repository) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM grocery_recipes WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear basket: %w", err)
	}
	return nil
}
