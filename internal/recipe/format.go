package recipe

import (
	"fmt"
	"regexp"
	"strings"
)

// FormatHoursAndMinutes renders a minute count as "2 hr 15 min", dropping
// whichever part is zero.
func FormatHoursAndMinutes(totalMinutes int) string {
	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	switch {
	case hours == 0:
		return fmt.Sprintf("%d min", minutes)
	case minutes == 0:
		return fmt.Sprintf("%d hr", hours)
	default:
		return fmt.Sprintf("%d hr %d min", hours, minutes)
	}
}

// BuildIngredientLine renders an ingredient as a display string:
// "200 g flour", "2 eggs", or just the item when no quantity is set.
func BuildIngredientLine(ing Ingredient) string {
	if ing.Quantity == "" {
		return ing.Item
	}
	if ing.Unit == "" {
		return fmt.Sprintf("%s %s", ing.Quantity, ing.Item)
	}
	return fmt.Sprintf("%s %s %s", ing.Quantity, ing.Unit, ing.Item)
}

var (
	camelBoundaryRe = regexp.MustCompile(`([a-z])([A-Z])`)
	nonAlnumRe      = regexp.MustCompile(`[^a-z0-9]+`)
	multiDashRe     = regexp.MustCompile(`-+`)
)

// NormalizeTag converts free-form tag input into its storage id:
// "SugarFree" -> "sugar-free", "  Gluten Free " -> "gluten-free".
func NormalizeTag(tag string) string {
	s := camelBoundaryRe.ReplaceAllString(strings.TrimSpace(tag), "$1 $2")
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, "-")
	s = multiDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// DisplayTag converts a stored tag id back into a label: "gluten-free" ->
// "Gluten Free".
func DisplayTag(tag string) string {
	words := strings.Split(tag, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
