package planner

import "time"

// DayMeals maps each meal slot of one day to the item occupying it, nil when
// the slot is empty.
type DayMeals map[MealSlot]*PlanItem

// WeekGrid maps each of 7 consecutive ISO dates to its meal slots. Derived
// from the plan item collection; rebuilt wholesale, never mutated in place.
type WeekGrid map[string]DayMeals

// WeekGridResult bundles the dense grid with the distinct recipe ids
// referenced anywhere in the window, in first-seen (chronological) order.
// The id list feeds the generate-grocery-list flow.
type WeekGridResult struct {
	Grid      WeekGrid `json:"grid"`
	RecipeIDs []string `json:"recipeIds"`
}

// BuildWeekGrid maps a sparse by-date collection onto a dense 7-day × meal
// grid starting at weekStart. Every date and every slot is present in the
// result even when nothing is planned, so callers can render without nil
// checks on the outer maps. When the store holds more than one item for the
// same (date, meal) the last one in day order wins.
func BuildWeekGrid(byDate ByDate, weekStart time.Time) WeekGridResult {
	grid := make(WeekGrid, 7)
	var recipeIDs []string
	seen := make(map[string]bool)

	for _, day := range WeekDays(weekStart) {
		date := day.Format(DateLayout)

		slots := make(DayMeals, len(MealSlots))
		for _, meal := range MealSlots {
			slots[meal] = nil
		}
		grid[date] = slots

		for _, item := range byDate[date] {
			// An unrecognized meal slot would widen the day's fixed
			// slot set; drop the item instead.
			if !item.Meal.Valid() {
				continue
			}
			item := item
			slots[item.Meal] = &item

			if item.RecipeID != "" && !seen[item.RecipeID] {
				seen[item.RecipeID] = true
				recipeIDs = append(recipeIDs, item.RecipeID)
			}
		}
	}

	return WeekGridResult{Grid: grid, RecipeIDs: recipeIDs}
}
