package recipe

// RatingCategory is one axis a recipe can be rated on.
type RatingCategory string

const (
	RatingTaste        RatingCategory = "taste"
	RatingEase         RatingCategory = "ease"
	RatingHealth       RatingCategory = "health"
	RatingPresentation RatingCategory = "presentation"
	RatingValue        RatingCategory = "value"
)

// RatingCategories lists every rating axis in display order.
var RatingCategories = []RatingCategory{
	RatingTaste, RatingEase, RatingHealth, RatingPresentation, RatingValue,
}

// MaxPerCategory caps each rating axis.
const MaxPerCategory = 5

// RatingAverage averages the rated categories, skipping unrated (zero) ones.
// Returns 0 when nothing has been rated.
func RatingAverage(categories map[RatingCategory]int) float64 {
	if len(categories) == 0 {
		return 0
	}

	total, count := 0, 0
	for _, cat := range RatingCategories {
		if val := categories[cat]; val > 0 {
			total += val
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// ValidRating reports whether a submitted rating map only uses known
// categories with values in [1, MaxPerCategory].
func ValidRating(categories map[RatingCategory]int) bool {
	for cat, val := range categories {
		known := false
		for _, c := range RatingCategories {
			if cat == c {
				known = true
				break
			}
		}
		if !known || val < 1 || val > MaxPerCategory {
			return false
		}
	}
	return true
}
