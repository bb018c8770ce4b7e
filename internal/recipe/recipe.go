package recipe

// Difficulty grades how hard a recipe is to cook.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Categories lists the recognized recipe categories, in display order.
var Categories = []string{
	"breakfast", "lunch", "dinner", "snacks",
	"appetizers", "soups-stews", "salads", "sides",
	"flatbreads-breads", "pastries-doughs", "pasta-noodles", "rice-grains",
	"meat-dishes", "seafood-dishes", "vegetarian-mains", "vegan-mains",
	"desserts", "cakes-muffins", "cookies-bars", "drinks-smoothies",
	"sauces-condiments", "spice-mixes-marinades",
}

// MeasuringUnits lists the units the create-recipe form offers.
var MeasuringUnits = []string{
	"mL", "L", "tsp", "tbsp", "fl oz", "cup", "pint", "quart", "gallon",
	"g", "kg", "oz", "lb",
	"piece", "slice", "clove", "leaf", "pinch", "dash",
}

// Ingredient is one line of a recipe's ingredient list. Quantity stays a raw
// string ("2", "1/2", "1 1/2"); parsing happens in the grocery aggregation.
type Ingredient struct {
	Item     string `json:"item"`
	Unit     string `json:"unit,omitempty"`
	Quantity string `json:"quantity,omitempty"`
}

// Card is the list projection of a recipe: everything the browse, search and
// favorites screens need without loading the full document.
type Card struct {
	ID               string                 `json:"id"`
	AuthorID         string                 `json:"authorId"`
	Title            string                 `json:"title"`
	Category         string                 `json:"category"`
	Tags             []string               `json:"tags"`
	Difficulty       Difficulty             `json:"difficulty,omitempty"`
	ImageURL         string                 `json:"imageUrl,omitempty"`
	Excerpt          string                 `json:"excerpt,omitempty"`
	IsFavorite       bool                   `json:"isFavorite"`
	RatingCategories map[RatingCategory]int `json:"ratingCategories,omitempty"`
	CreatedAt        int64                  `json:"createdAt,omitempty"` // unix millis
	UpdatedAt        int64                  `json:"updatedAt,omitempty"` // unix millis
}

// Recipe is the full recipe document.
type Recipe struct {
	Card
	Description string       `json:"description,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Servings    int          `json:"servings,omitempty"`
	PrepMinutes int          `json:"prepMinutes,omitempty"`
	CookMinutes int          `json:"cookMinutes,omitempty"`
	IsPublic    bool         `json:"isPublic"`
}
