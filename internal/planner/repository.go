package planner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidSlot is returned when a plan item names a meal slot outside the
// fixed set.
var ErrInvalidSlot = fmt.Errorf("invalid meal slot")

// Repository is a database-backed repository for plan items. The table has a
// unique index on (user_id, date, meal): putting an item into an occupied
// slot replaces the previous occupant instead of accumulating duplicates the
// grid would have to resolve.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new plan item repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Put stores a plan item, replacing whatever occupied the (date, meal) slot.
// A missing id gets generated. The stored item is returned.
func (r *Repository) Put(ctx context.Context, item PlanItem) (PlanItem, error) {
	if !item.Meal.Valid() {
		return PlanItem{}, fmt.Errorf("%w: %q", ErrInvalidSlot, item.Meal)
	}
	if _, err := time.Parse(DateLayout, item.Date); err != nil {
		return PlanItem{}, fmt.Errorf("invalid plan item date %q: %w", item.Date, err)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	now := time.Now().UTC().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plan_items
			(id, user_id, date, meal, recipe_id, recipe_name, recipe_img_url, servings, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date, meal) DO UPDATE SET
			id = excluded.id,
			recipe_id = excluded.recipe_id,
			recipe_name = excluded.recipe_name,
			recipe_img_url = excluded.recipe_img_url,
			servings = excluded.servings,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		item.ID, item.UserID, item.Date, string(item.Meal),
		item.RecipeID, item.RecipeName, item.RecipeImgURL,
		item.Servings, item.Notes, now, now)
	if err != nil {
		return PlanItem{}, fmt.Errorf("failed to put plan item: %w", err)
	}
	return item, nil
}

// Delete removes a plan item by id. Deleting an unknown id is not an error.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM plan_items WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan item: %w", err)
	}
	return nil
}

// ListRange returns every plan item for the user in the inclusive
// [fromISO, toISO] date range, ordered by date and then meal display order.
func (r *Repository) ListRange(ctx context.Context, userID, fromISO, toISO string) ([]PlanItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, date, meal, recipe_id, recipe_name, recipe_img_url, servings, notes
		FROM plan_items
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date,
			CASE meal
				WHEN 'breakfast' THEN 0
				WHEN 'lunch' THEN 1
				WHEN 'dinner' THEN 2
				ELSE 3
			END`,
		userID, fromISO, toISO)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan items: %w", err)
	}
	defer rows.Close()

	var items []PlanItem
	for rows.Next() {
		var item PlanItem
		var meal string
		if err := rows.Scan(&item.ID, &item.UserID, &item.Date, &meal,
			&item.RecipeID, &item.RecipeName, &item.RecipeImgURL,
			&item.Servings, &item.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan plan item: %w", err)
		}
		item.Meal = MealSlot(meal)
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListWeek returns the items for the 7-day week starting at weekStart.
func (r *Repository) ListWeek(ctx context.Context, userID string, weekStart time.Time) ([]PlanItem, error) {
	from := weekStart.Format(DateLayout)
	to := weekStart.AddDate(0, 0, 6).Format(DateLayout)
	return r.ListRange(ctx, userID, from, to)
}
