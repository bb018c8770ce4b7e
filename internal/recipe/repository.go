package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// searchUpperBound closes the title prefix range: U+F8FF sorts above every
// character that can appear in a normalized title, so the half-open range
// [prefix, prefix+searchUpperBound) matches exactly the titles starting with
// the prefix.
const searchUpperBound = "\uf8ff"

// PageRequest drives keyset pagination over recipe cards. With an empty Query
// the listing is newest-first by creation time; with a Query it walks the
// normalized-title prefix range alphabetically.
type PageRequest struct {
	Query      string
	Category   string
	Difficulty Difficulty
	Tag        string
	Limit      int

	// Cursor fields from the previous page's last card.
	AfterCreatedAt int64
	AfterTitle     string
	AfterID        string
}

// Page is one page of cards plus the cursor for the next one.
type Page struct {
	Cards   []Card `json:"cards"`
	HasMore bool   `json:"hasMore"`
}

// Repository stores recipes in SQLite. Each recipe is written as a pair: the
// full document in recipes and its list projection in recipe_cards, updated
// together in one transaction.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts or replaces a recipe and its card. A missing ID gets a fresh
// one; CreatedAt is preserved on update and UpdatedAt always refreshed.
func (r *Repository) Save(ctx context.Context, rec *Recipe) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UnixMilli()
	if rec.CreatedAt == 0 {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if rec.Excerpt == "" {
		rec.Excerpt = makeExcerpt(rec.Description)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling recipe: %w", err)
	}
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipes (id, user_id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		rec.ID, rec.AuthorID, string(data), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving recipe: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipe_cards (
			recipe_id, user_id, title, title_search, category, difficulty,
			tags, image_url, excerpt, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(recipe_id) DO UPDATE SET
			title = excluded.title,
			title_search = excluded.title_search,
			category = excluded.category,
			difficulty = excluded.difficulty,
			tags = excluded.tags,
			image_url = excluded.image_url,
			excerpt = excluded.excerpt,
			updated_at = excluded.updated_at`,
		rec.ID, rec.AuthorID, rec.Title, MakeTitleSearch(rec.Title), rec.Category,
		string(rec.Difficulty), string(tags), rec.ImageURL, rec.Excerpt,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving recipe card: %w", err)
	}

	return tx.Commit()
}

// Get loads a full recipe, overlaying the card's favorite flag and ratings
// onto the stored document. Returns (nil, nil) when the recipe doesn't exist.
func (r *Repository) Get(ctx context.Context, userID, id string) (*Recipe, error) {
	var data string
	var isFavorite bool
	var ratings sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT r.data, c.is_favorite, c.rating_categories
		FROM recipes r
		JOIN recipe_cards c ON c.recipe_id = r.id
		WHERE r.id = ? AND r.user_id = ?`,
		id, userID).Scan(&data, &isFavorite, &ratings)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying recipe: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling recipe %s: %w", id, err)
	}
	rec.IsFavorite = isFavorite
	if ratings.Valid && ratings.String != "" {
		if err := json.Unmarshal([]byte(ratings.String), &rec.RatingCategories); err != nil {
			return nil, fmt.Errorf("unmarshaling ratings for %s: %w", id, err)
		}
	}
	return &rec, nil
}

// GetCards loads the cards for a set of recipe ids, e.g. the recipes placed
// on a planner week. Unknown ids are skipped.
func (r *Repository) GetCards(ctx context.Context, userID string, ids []string) ([]Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT recipe_id, user_id, title, category, difficulty, tags,
		       image_url, excerpt, is_favorite, rating_categories,
		       created_at, updated_at
		FROM recipe_cards
		WHERE user_id = ? AND recipe_id IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("querying recipe cards: %w", err)
	}
	defer rows.Close()

	return scanCards(rows)
}

// ListCardsPaged returns one page of cards for the browse or search listing.
// It fetches limit+1 rows to decide HasMore without a count query.
func (r *Repository) ListCardsPaged(ctx context.Context, userID string, req PageRequest) (*Page, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT recipe_id, user_id, title, category, difficulty, tags,
		       image_url, excerpt, is_favorite, rating_categories,
		       created_at, updated_at
		FROM recipe_cards
		WHERE user_id = ?`)
	args := []any{userID}

	if req.Category != "" {
		sb.WriteString(" AND category = ?")
		args = append(args, req.Category)
	}
	if req.Difficulty != "" {
		sb.WriteString(" AND difficulty = ?")
		args = append(args, string(req.Difficulty))
	}
	if req.Tag != "" {
		sb.WriteString(" AND EXISTS (SELECT 1 FROM json_each(tags) WHERE json_each.value = ?)")
		args = append(args, NormalizeTag(req.Tag))
	}

	if req.Query != "" {
		prefix := MakeTitleSearch(req.Query)
		sb.WriteString(" AND title_search >= ? AND title_search < ?")
		args = append(args, prefix, prefix+searchUpperBound)
		if req.AfterTitle != "" {
			// The cursor carries the last card's display title; the
			// ordering column is the normalized one.
			after := MakeTitleSearch(req.AfterTitle)
			sb.WriteString(" AND (title_search > ? OR (title_search = ? AND recipe_id > ?))")
			args = append(args, after, after, req.AfterID)
		}
		sb.WriteString(" ORDER BY title_search, recipe_id LIMIT ?")
	} else {
		if req.AfterCreatedAt > 0 {
			sb.WriteString(" AND (created_at < ? OR (created_at = ? AND recipe_id < ?))")
			args = append(args, req.AfterCreatedAt, req.AfterCreatedAt, req.AfterID)
		}
		sb.WriteString(" ORDER BY created_at DESC, recipe_id DESC LIMIT ?")
	}
	args = append(args, limit+1)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying recipe page: %w", err)
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		return nil, err
	}

	page := &Page{Cards: cards}
	if len(cards) > limit {
		page.Cards = cards[:limit]
		page.HasMore = true
	}
	return page, nil
}

// favoritesLimit caps the favorites listing; it is not paginated.
const favoritesLimit = 100

// ListFavorites returns the user's favorite cards, newest first.
func (r *Repository) ListFavorites(ctx context.Context, userID string) ([]Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT recipe_id, user_id, title, category, difficulty, tags,
		       image_url, excerpt, is_favorite, rating_categories,
		       created_at, updated_at
		FROM recipe_cards
		WHERE user_id = ? AND is_favorite = 1
		ORDER BY created_at DESC
		LIMIT ?`, userID, favoritesLimit)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	return scanCards(rows)
}

// SetFavorite flips the favorite flag. Reports whether the recipe exists.
func (r *Repository) SetFavorite(ctx context.Context, userID, id string, favorite bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recipe_cards SET is_favorite = ?, updated_at = ?
		WHERE recipe_id = ? AND user_id = ?`,
		favorite, time.Now().UnixMilli(), id, userID)
	if err != nil {
		return false, fmt.Errorf("updating favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking favorite update: %w", err)
	}
	return n > 0, nil
}

// SaveRatings replaces the per-category ratings of a recipe.
func (r *Repository) SaveRatings(ctx context.Context, userID, id string, categories map[RatingCategory]int) (bool, error) {
	data, err := json.Marshal(categories)
	if err != nil {
		return false, fmt.Errorf("marshaling ratings: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE recipe_cards SET rating_categories = ?, updated_at = ?
		WHERE recipe_id = ? AND user_id = ?`,
		string(data), time.Now().UnixMilli(), id, userID)
	if err != nil {
		return false, fmt.Errorf("updating ratings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking ratings update: %w", err)
	}
	return n > 0, nil
}

// Delete removes a recipe and its card. Reports whether anything was deleted.
func (r *Repository) Delete(ctx context.Context, userID, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM recipes WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking recipe delete: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM recipe_cards WHERE recipe_id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting recipe card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns how many recipes the user has.
func (r *Repository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM recipes WHERE user_id = ?", userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting recipes: %w", err)
	}
	return n, nil
}

func scanCards(rows *sql.Rows) ([]Card, error) {
	var cards []Card
	for rows.Next() {
		var c Card
		var difficulty, tags string
		var ratings sql.NullString
		err := rows.Scan(&c.ID, &c.AuthorID, &c.Title, &c.Category, &difficulty,
			&tags, &c.ImageURL, &c.Excerpt, &c.IsFavorite, &ratings,
			&c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe card: %w", err)
		}
		c.Difficulty = Difficulty(difficulty)
		if tags != "" {
			if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
				return nil, fmt.Errorf("unmarshaling tags for %s: %w", c.ID, err)
			}
		}
		if ratings.Valid && ratings.String != "" {
			if err := json.Unmarshal([]byte(ratings.String), &c.RatingCategories); err != nil {
				return nil, fmt.Errorf("unmarshaling ratings for %s: %w", c.ID, err)
			}
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// excerptLength is how much of the description a card carries.
const excerptLength = 140

func makeExcerpt(description string) string {
	s := strings.TrimSpace(description)
	if line, _, found := strings.Cut(s, "\n"); found {
		s = strings.TrimSpace(line)
	}
	runes := []rune(s)
	if len(runes) <= excerptLength {
		return s
	}
	return strings.TrimSpace(string(runes[:excerptLength])) + "…"
}
