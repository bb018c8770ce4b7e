package grocery

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ViewMode selects how the grocery list is presented to the client.
type ViewMode string

const (
	ViewByRecipe ViewMode = "byRecipe"
	ViewCombined ViewMode = "combined"
)

// Quantity is a raw ingredient quantity as entered on a recipe: "2", "0,5",
// "1/2", "1 1/2". Older clients sent plain JSON numbers, so both forms
// decode into the raw string.
type Quantity string

func (q *Quantity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*q = Quantity(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("quantity must be a string or a number: %s", b)
	}
	*q = Quantity(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// Item is a single ingredient line in the basket, copied from a recipe's
// ingredient list when the recipe is added. Only its checked state changes
// afterwards.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Checked  bool     `json:"checked"`
	Notes    string   `json:"notes,omitempty"`
}

// RecipeEntry groups the basket items contributed by one recipe. The basket
// holds at most one entry per recipe id; the aggregation step double counts
// otherwise.
type RecipeEntry struct {
	RecipeID string `json:"recipeId"`
	Title    string `json:"title"`
	Items    []Item `json:"items"`
}

// Contribution records one recipe's share of a combined ingredient, kept for
// traceability in the combined view.
type Contribution struct {
	RecipeID    string  `json:"recipeId"`
	Title       string  `json:"title"`
	Quantity    float64 `json:"quantity"`
	RawQuantity string  `json:"rawQuantity"`
	Unit        string  `json:"unit"`
}

// CombinedIngredient is the aggregate of every basket line sharing the same
// (case-insensitive name, exact unit) key. Derived, never persisted.
type CombinedIngredient struct {
	Name          string         `json:"name"`
	Unit          string         `json:"unit"`
	TotalQuantity float64        `json:"totalQuantity"`
	Recipes       []Contribution `json:"recipes"`
}
