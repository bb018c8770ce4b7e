package grocery

import "strings"

// ExportOptions controls which basket lines end up in the exported text.
type ExportOptions struct {
	OnlyUnchecked bool
}

// BuildItemsText renders one basket item name per line, for sharing a single
// recipe's remaining shopping items.
func BuildItemsText(items []Item, opts ExportOptions) string {
	var lines []string
	for _, item := range items {
		if opts.OnlyUnchecked && item.Checked {
			continue
		}
		lines = append(lines, item.Name)
	}
	return strings.Join(lines, "\n")
}

// BuildBasketText renders the whole basket as plain text: each recipe title
// followed by its item lines, with a blank line between recipes. Recipes
// whose items are all filtered out are skipped entirely.
func BuildBasketText(entries []RecipeEntry, opts ExportOptions) string {
	var lines []string
	for _, entry := range entries {
		text := BuildItemsText(entry.Items, opts)
		if text == "" {
			continue
		}
		lines = append(lines, entry.Title, text, "")
	}
	return strings.Join(lines, "\n")
}
