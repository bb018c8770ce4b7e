package grocery

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CombineIngredients folds every basket line across all recipe entries into
// one deduplicated, totaled list. Lines merge when they share a
// case-insensitive name and an identical unit; unit casing is intentionally
// significant, matching how the mobile client has always grouped. The display
// name keeps the casing of the first occurrence, and lines with unparseable
// quantities still appear (contributing zero to the total).
//
// Pure function of its input; safe to recompute on every request.
func CombineIngredients(entries []RecipeEntry) []CombinedIngredient {
	byKey := make(map[string]*CombinedIngredient)

	for _, entry := range entries {
		for _, item := range entry.Items {
			key := strings.ToLower(item.Name) + "|" + item.Unit

			ci, ok := byKey[key]
			if !ok {
				ci = &CombinedIngredient{Name: item.Name, Unit: item.Unit}
				byKey[key] = ci
			}

			parsed := ParseQuantity(item.Quantity)
			ci.TotalQuantity += parsed
			ci.Recipes = append(ci.Recipes, Contribution{
				RecipeID:    entry.RecipeID,
				Title:       entry.Title,
				Quantity:    parsed,
				RawQuantity: string(item.Quantity),
				Unit:        item.Unit,
			})
		}
	}

	out := make([]CombinedIngredient, 0, len(byKey))
	for _, ci := range byKey {
		out = append(out, *ci)
	}

	// Locale-aware, deterministic ordering keeps the combined view stable
	// between refreshes. Ties on name (same name, different unit casing)
	// fall back to a byte compare of the unit.
	c := collate.New(language.English, collate.IgnoreCase)
	sort.Slice(out, func(i, j int) bool {
		if r := c.CompareString(out[i].Name, out[j].Name); r != 0 {
			return r < 0
		}
		return out[i].Unit < out[j].Unit
	})

	return out
}
