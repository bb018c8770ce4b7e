package recipe

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MakeTitleSearch normalizes a title for prefix search: lowercased with
// accents stripped, so "Crème Brûlée" matches "creme br". The normalized form
// is stored alongside the card and queried with an inclusive prefix range.
func MakeTitleSearch(title string) string {
	lowered := strings.ToLower(title)

	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, lowered)
	if err != nil {
		return lowered
	}
	return folded
}
