package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"recipe-planner/internal/recipe"
)

// ErrNoRecipeFound means the page carried no recognizable recipe markup.
var ErrNoRecipeFound = errors.New("no recipe found on page")

// Clipper fetches a web page and extracts the recipe it describes, preferring
// schema.org/Recipe JSON-LD and falling back to microdata in the DOM.
type Clipper struct {
	client *http.Client
}

func NewClipper() *Clipper {
	return &Clipper{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the URL and extracts its recipe.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*recipe.Recipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "recipe-planner/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	rec, err := ExtractFromHTML(resp.Body)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ExtractFromHTML parses an HTML document and extracts the first recipe in it.
func ExtractFromHTML(r io.Reader) (*recipe.Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var rec *recipe.Recipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if found := recipeFromJSONLD(s.Text()); found != nil {
			rec = found
			return false
		}
		return true
	})
	if rec != nil {
		return rec, nil
	}

	if rec := recipeFromMicrodata(doc); rec != nil {
		return rec, nil
	}
	return nil, ErrNoRecipeFound
}

// jsonLDRecipe mirrors the subset of schema.org/Recipe we import. Several
// fields are json.RawMessage because publishers encode them inconsistently
// (string vs array vs nested object).
type jsonLDRecipe struct {
	Type               json.RawMessage `json:"@type"`
	Graph              []jsonLDRecipe  `json:"@graph"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Image              json.RawMessage `json:"image"`
	RecipeIngredient   []string        `json:"recipeIngredient"`
	RecipeInstructions json.RawMessage `json:"recipeInstructions"`
	RecipeYield        json.RawMessage `json:"recipeYield"`
	PrepTime           string          `json:"prepTime"`
	CookTime           string          `json:"cookTime"`
}

func recipeFromJSONLD(raw string) *recipe.Recipe {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var nodes []jsonLDRecipe
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &nodes); err != nil {
			return nil
		}
	} else {
		var single jsonLDRecipe
		if err := json.Unmarshal([]byte(raw), &single); err != nil {
			return nil
		}
		nodes = append(nodes, single)
		nodes = append(nodes, single.Graph...)
	}

	for _, node := range nodes {
		if !isRecipeType(node.Type) {
			continue
		}
		return buildRecipe(node)
	}
	return nil
}

func isRecipeType(raw json.RawMessage) bool {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s == "Recipe"
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		for _, t := range list {
			if t == "Recipe" {
				return true
			}
		}
	}
	return false
}

func buildRecipe(node jsonLDRecipe) *recipe.Recipe {
	rec := &recipe.Recipe{
		Card: recipe.Card{
			Title:    strings.TrimSpace(node.Name),
			ImageURL: firstImage(node.Image),
		},
		Description: strings.TrimSpace(node.Description),
		Servings:    parseYield(node.RecipeYield),
		PrepMinutes: parseISODurationMinutes(node.PrepTime),
		CookMinutes: parseISODurationMinutes(node.CookTime),
	}
	for _, line := range node.RecipeIngredient {
		if line = strings.TrimSpace(line); line != "" {
			rec.Ingredients = append(rec.Ingredients, ParseIngredientLine(line))
		}
	}
	rec.Steps = parseInstructions(node.RecipeInstructions)
	if rec.Title == "" {
		return nil
	}
	return rec
}

func firstImage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return firstImage(list[0])
	}
	var obj struct {
		URL string `json:"url"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.URL
	}
	return ""
}

var leadingIntRe = regexp.MustCompile(`\d+`)

func parseYield(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if json.Unmarshal(raw, &n) == nil {
		return n
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if m := leadingIntRe.FindString(s); m != "" {
			v, _ := strconv.Atoi(m)
			return v
		}
		return 0
	}
	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return parseYield(list[0])
	}
	return 0
}

// parseInstructions handles the three common encodings: a plain string, a
// list of strings, and a list of HowToStep / HowToSection objects.
func parseInstructions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return splitSteps(s)
	}

	var list []json.RawMessage
	if json.Unmarshal(raw, &list) != nil {
		return nil
	}

	var steps []string
	for _, item := range list {
		var text string
		if json.Unmarshal(item, &text) == nil {
			if text = strings.TrimSpace(text); text != "" {
				steps = append(steps, text)
			}
			continue
		}
		var obj struct {
			Text            string          `json:"text"`
			ItemListElement json.RawMessage `json:"itemListElement"`
		}
		if json.Unmarshal(item, &obj) != nil {
			continue
		}
		if obj.Text != "" {
			steps = append(steps, strings.TrimSpace(obj.Text))
		} else if len(obj.ItemListElement) > 0 {
			steps = append(steps, parseInstructions(obj.ItemListElement)...)
		}
	}
	return steps
}

func splitSteps(s string) []string {
	var steps []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:\d+S)?)?$`)

// parseISODurationMinutes converts an ISO 8601 duration like "PT1H30M" to
// whole minutes. Malformed input yields 0.
func parseISODurationMinutes(s string) int {
	m := isoDurationRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	days, _ := strconv.Atoi(m[1])
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	return days*24*60 + hours*60 + minutes
}

// recipeFromMicrodata scrapes itemprop attributes for pages without JSON-LD.
func recipeFromMicrodata(doc *goquery.Document) *recipe.Recipe {
	scope := doc.Find(`[itemtype*="schema.org/Recipe"]`).First()
	if scope.Length() == 0 {
		return nil
	}

	rec := &recipe.Recipe{}
	rec.Title = strings.TrimSpace(scope.Find(`[itemprop="name"]`).First().Text())
	rec.Description = strings.TrimSpace(scope.Find(`[itemprop="description"]`).First().Text())
	if src, ok := scope.Find(`[itemprop="image"]`).First().Attr("src"); ok {
		rec.ImageURL = src
	}
	scope.Find(`[itemprop="recipeIngredient"]`).Each(func(_ int, s *goquery.Selection) {
		if line := strings.TrimSpace(s.Text()); line != "" {
			rec.Ingredients = append(rec.Ingredients, ParseIngredientLine(line))
		}
	})
	scope.Find(`[itemprop="recipeInstructions"]`).Each(func(_ int, s *goquery.Selection) {
		if step := strings.TrimSpace(s.Text()); step != "" {
			rec.Steps = append(rec.Steps, step)
		}
	})

	if rec.Title == "" {
		return nil
	}
	return rec
}

var ingredientLineRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?(?:\s+\d+/\d+)?|\d+/\d+)\s+(.+)$`)

var knownUnits = map[string]bool{
	"ml": true, "l": true, "tsp": true, "tbsp": true, "cup": true, "cups": true,
	"g": true, "kg": true, "oz": true, "lb": true, "lbs": true,
	"pinch": true, "dash": true, "clove": true, "cloves": true,
	"slice": true, "slices": true, "piece": true, "pieces": true,
}

// ParseIngredientLine splits a free-form line like "200 g flour" into its
// quantity, unit and item. Lines that don't start with a number come back
// with everything in Item.
func ParseIngredientLine(line string) recipe.Ingredient {
	m := ingredientLineRe.FindStringSubmatch(line)
	if m == nil {
		return recipe.Ingredient{Item: line}
	}

	quantity, rest := m[1], m[2]
	word, remainder, found := strings.Cut(rest, " ")
	if found && knownUnits[strings.ToLower(word)] {
		return recipe.Ingredient{Quantity: quantity, Unit: word, Item: strings.TrimSpace(remainder)}
	}
	return recipe.Ingredient{Quantity: quantity, Item: rest}
}
