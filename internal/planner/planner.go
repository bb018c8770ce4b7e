package planner

// MealSlot is one of the fixed meal slots a recipe can be planned into.
type MealSlot string

const (
	MealBreakfast MealSlot = "breakfast"
	MealLunch     MealSlot = "lunch"
	MealDinner    MealSlot = "dinner"
	MealSnacks    MealSlot = "snacks"
)

// MealSlots lists every slot in display order.
var MealSlots = []MealSlot{MealBreakfast, MealLunch, MealDinner, MealSnacks}

// Valid reports whether m is a recognized meal slot.
func (m MealSlot) Valid() bool {
	for _, slot := range MealSlots {
		if m == slot {
			return true
		}
	}
	return false
}

// PlanItem assigns one recipe to one meal slot on one date for one user.
type PlanItem struct {
	ID           string   `json:"id"`
	UserID       string   `json:"userId"`
	Date         string   `json:"date"` // 'YYYY-MM-DD'
	Meal         MealSlot `json:"meal"`
	RecipeID     string   `json:"recipeId"`
	RecipeName   string   `json:"recipeName"`
	RecipeImgURL string   `json:"recipeImgUrl,omitempty"`
	Servings     int      `json:"servings,omitempty"` // overrides recipe default
	Notes        string   `json:"notes,omitempty"`
}

// ByDate maps 'YYYY-MM-DD' to the plan items on that date.
type ByDate map[string][]PlanItem

// GroupByDate groups a flat list of plan items by their date, preserving the
// input order within each day.
func GroupByDate(items []PlanItem) ByDate {
	byDate := make(ByDate)
	for _, item := range items {
		byDate[item.Date] = append(byDate[item.Date], item)
	}
	return byDate
}

// ItemsForSlot returns every item planned for the given date and meal.
func ItemsForSlot(items []PlanItem, date string, meal MealSlot) []PlanItem {
	var out []PlanItem
	for _, item := range items {
		if item.Date == date && item.Meal == meal {
			out = append(out, item)
		}
	}
	return out
}

// ItemForSlot returns the first item planned for the given date and meal, or
// nil when the slot is empty.
func ItemForSlot(items []PlanItem, date string, meal MealSlot) *PlanItem {
	for i := range items {
		if items[i].Date == date && items[i].Meal == meal {
			item := items[i]
			return &item
		}
	}
	return nil
}
