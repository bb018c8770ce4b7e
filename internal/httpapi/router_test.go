package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"recipe-planner/internal/auth"
	"recipe-planner/internal/config"
	"recipe-planner/internal/database"
	"recipe-planner/internal/grocery"
	"recipe-planner/internal/importer"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/planner"
	"recipe-planner/internal/recipe"
)

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Environment:  "test",
		DatabasePath: filepath.Join(t.TempDir(), "data"),
		JWTSecret:    "test-secret",
		AccessCode:   "test-code",
	}
	authMgr := auth.NewManager(cfg.JWTSecret, cfg.AccessCode)
	handler := NewHandler(
		cfg,
		authMgr,
		recipe.NewRepository(db.SQL),
		planner.NewRepository(db.SQL),
		grocery.NewRepository(db.SQL),
		metrics.NewStore(db.SQL),
		importer.NewClipper(),
	)

	token, err := authMgr.Issue("test-user")
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}

	return &testServer{
		router: SetupRouter(cfg, authMgr, handler),
		token:  token,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var body map[string]any
	decode(t, w, &body)
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", body["status"])
	}
}

func TestIssueToken(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"accessCode": "test-code", "userId": "alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", body)
	req.Header.Set("Content-Type", "application/json")
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	decode(t, w, &resp)
	if resp["token"] == "" {
		t.Error("Expected a token in the response")
	}
}

func TestIssueTokenRejectsWrongCode(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"accessCode": "wrong", "userId": "alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", body)
	req.Header.Set("Content-Type", "application/json")
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with bad token, got %d", w.Code)
	}
}

func TestRecipeCRUD(t *testing.T) {
	srv := newTestServer(t)

	payload := recipe.Recipe{
		Card: recipe.Card{
			Title:    "Shakshuka",
			Category: "breakfast",
			Tags:     []string{"One Pot"},
		},
		Ingredients: []recipe.Ingredient{
			{Item: "eggs", Quantity: "4"},
			{Item: "tomatoes", Unit: "g", Quantity: "400"},
		},
		Steps:    []string{"Simmer sauce.", "Crack in eggs."},
		Servings: 2,
	}

	w := srv.do(t, http.MethodPost, "/api/v1/recipes", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created recipe.Recipe
	decode(t, w, &created)
	if created.ID == "" {
		t.Fatal("Create did not return an id")
	}
	if len(created.Tags) != 1 || created.Tags[0] != "one-pot" {
		t.Errorf("Tags not normalized: %v", created.Tags)
	}

	w = srv.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Get: expected 200, got %d", w.Code)
	}
	var got recipe.Recipe
	decode(t, w, &got)
	if got.Title != "Shakshuka" || len(got.Ingredients) != 2 {
		t.Errorf("Get returned %+v", got)
	}

	created.Title = "Shakshuka Deluxe"
	w = srv.do(t, http.MethodPut, "/api/v1/recipes/"+created.ID, created)
	if w.Code != http.StatusOK {
		t.Fatalf("Update: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = srv.do(t, http.MethodGet, "/api/v1/recipes?q=shakshuka+del", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Search: expected 200, got %d", w.Code)
	}
	var page recipe.Page
	decode(t, w, &page)
	if len(page.Cards) != 1 || page.Cards[0].Title != "Shakshuka Deluxe" {
		t.Errorf("Search returned %+v", page.Cards)
	}

	w = srv.do(t, http.MethodDelete, "/api/v1/recipes/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Delete: expected 204, got %d", w.Code)
	}

	w = srv.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Get after delete: expected 404, got %d", w.Code)
	}
}

func TestFavoriteAndRatings(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/recipes", recipe.Recipe{Card: recipe.Card{Title: "Dal"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create failed: %d", w.Code)
	}
	var created recipe.Recipe
	decode(t, w, &created)

	w = srv.do(t, http.MethodPut, "/api/v1/recipes/"+created.ID+"/favorite", map[string]bool{"isFavorite": true})
	if w.Code != http.StatusOK {
		t.Fatalf("SetFavorite: expected 200, got %d", w.Code)
	}

	w = srv.do(t, http.MethodGet, "/api/v1/recipes/favorites", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ListFavorites: expected 200, got %d", w.Code)
	}
	var favs struct {
		Cards []recipe.Card `json:"cards"`
	}
	decode(t, w, &favs)
	if len(favs.Cards) != 1 || favs.Cards[0].ID != created.ID {
		t.Errorf("Favorites = %+v", favs.Cards)
	}

	ratings := map[string]any{"categories": map[string]int{"taste": 5, "ease": 4}}
	w = srv.do(t, http.MethodPut, "/api/v1/recipes/"+created.ID+"/ratings", ratings)
	if w.Code != http.StatusOK {
		t.Fatalf("SaveRatings: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	bad := map[string]any{"categories": map[string]int{"taste": 9}}
	w = srv.do(t, http.MethodPut, "/api/v1/recipes/"+created.ID+"/ratings", bad)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Out-of-range rating: expected 400, got %d", w.Code)
	}
}

func TestImportRecipes(t *testing.T) {
	srv := newTestServer(t)

	body := `[{"title": "A"}, {"title": "B"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/import", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+srv.token)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Import: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]int
	decode(t, w, &resp)
	if resp["imported"] != 2 {
		t.Errorf("Expected 2 imported, got %d", resp["imported"])
	}
}

func TestPlannerWeekFlow(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/recipes", recipe.Recipe{Card: recipe.Card{Title: "Chili"}})
	var created recipe.Recipe
	decode(t, w, &created)

	item := planner.PlanItem{
		Date:       "2025-06-04",
		Meal:       planner.MealDinner,
		RecipeID:   created.ID,
		RecipeName: "Chili",
	}
	w = srv.do(t, http.MethodPut, "/api/v1/planner/items", item)
	if w.Code != http.StatusOK {
		t.Fatalf("PutPlanItem: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var stored planner.PlanItem
	decode(t, w, &stored)
	if stored.ID == "" {
		t.Fatal("PutPlanItem did not assign an id")
	}

	w = srv.do(t, http.MethodGet, "/api/v1/planner/week?start=2025-06-02", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GetPlannerWeek: expected 200, got %d", w.Code)
	}
	var week struct {
		WeekStart string                                    `json:"weekStart"`
		Grid      map[string]map[string]*planner.PlanItem   `json:"grid"`
		Recipes   []recipe.Card                             `json:"recipes"`
	}
	decode(t, w, &week)
	if week.WeekStart != "2025-06-02" {
		t.Errorf("WeekStart = %q", week.WeekStart)
	}
	cell := week.Grid["2025-06-04"]["dinner"]
	if cell == nil || cell.RecipeName != "Chili" {
		t.Errorf("Grid cell = %+v", cell)
	}
	if len(week.Recipes) != 1 || week.Recipes[0].Title != "Chili" {
		t.Errorf("Week recipes = %+v", week.Recipes)
	}

	w = srv.do(t, http.MethodGet, "/api/v1/planner/window?anchor=2025-06-04", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GetPlannerWindow: expected 200, got %d", w.Code)
	}
	var window struct {
		From  string             `json:"from"`
		To    string             `json:"to"`
		Items []planner.PlanItem `json:"items"`
	}
	decode(t, w, &window)
	if window.From != "2025-05-26" || window.To != "2025-06-15" {
		t.Errorf("Window = %s..%s", window.From, window.To)
	}
	if len(window.Items) != 1 {
		t.Errorf("Window items = %+v", window.Items)
	}

	w = srv.do(t, http.MethodDelete, "/api/v1/planner/items/"+stored.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("DeletePlanItem: expected 204, got %d", w.Code)
	}
}

func TestPlannerRejectsInvalidSlot(t *testing.T) {
	srv := newTestServer(t)

	item := map[string]string{"date": "2025-06-04", "meal": "brunch"}
	w := srv.do(t, http.MethodPut, "/api/v1/planner/items", item)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown slot, got %d", w.Code)
	}
}

func TestGenerateBasketFromWeek(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/recipes", recipe.Recipe{
		Card:        recipe.Card{Title: "Stir Fry"},
		Ingredients: []recipe.Ingredient{{Item: "rice", Unit: "g", Quantity: "300"}},
	})
	var created recipe.Recipe
	decode(t, w, &created)

	item := planner.PlanItem{
		Date:       "2025-06-03",
		Meal:       planner.MealDinner,
		RecipeID:   created.ID,
		RecipeName: "Stir Fry",
	}
	if w := srv.do(t, http.MethodPut, "/api/v1/planner/items", item); w.Code != http.StatusOK {
		t.Fatalf("PutPlanItem failed: %d", w.Code)
	}

	w = srv.do(t, http.MethodPost, "/api/v1/grocery/generate", map[string]string{"weekStart": "2025-06-02"})
	if w.Code != http.StatusOK {
		t.Fatalf("GenerateBasket: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]int
	decode(t, w, &resp)
	if resp["added"] != 1 {
		t.Errorf("Expected 1 added recipe, got %d", resp["added"])
	}

	w = srv.do(t, http.MethodGet, "/api/v1/grocery", nil)
	var basket struct {
		Recipes []grocery.RecipeEntry `json:"recipes"`
	}
	decode(t, w, &basket)
	if len(basket.Recipes) != 1 || basket.Recipes[0].Title != "Stir Fry" {
		t.Errorf("Basket = %+v", basket.Recipes)
	}
	if len(basket.Recipes[0].Items) != 1 || basket.Recipes[0].Items[0].Name != "rice" {
		t.Errorf("Basket items = %+v", basket.Recipes[0].Items)
	}
}

func TestDailyMetrics(t *testing.T) {
	srv := newTestServer(t)

	// Generate some traffic first; the metrics middleware records each call.
	srv.do(t, http.MethodGet, "/api/v1/recipes", nil)
	srv.do(t, http.MethodGet, "/api/v1/grocery", nil)

	w := srv.do(t, http.MethodGet, "/api/v1/metrics/daily?days=7", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GetDailyMetrics: expected 200, got %d", w.Code)
	}
	var resp struct {
		Days []struct {
			Date          string `json:"Date"`
			TotalRequests int    `json:"TotalRequests"`
		} `json:"days"`
	}
	decode(t, w, &resp)
	if len(resp.Days) != 1 {
		t.Fatalf("Expected 1 day of metrics, got %d", len(resp.Days))
	}
	if resp.Days[0].TotalRequests < 2 {
		t.Errorf("Expected at least 2 recorded requests, got %d", resp.Days[0].TotalRequests)
	}

	if w := srv.do(t, http.MethodGet, "/api/v1/metrics/daily?days=0", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for days=0, got %d", w.Code)
	}
}

func TestGroceryFlow(t *testing.T) {
	srv := newTestServer(t)

	mkRecipe := func(title, qty string) recipe.Recipe {
		return recipe.Recipe{
			Card: recipe.Card{Title: title},
			Ingredients: []recipe.Ingredient{
				{Item: "Flour", Unit: "g", Quantity: qty},
			},
		}
	}

	var ids []string
	for i, qty := range []string{"200", "1 1/2"} {
		w := srv.do(t, http.MethodPost, "/api/v1/recipes", mkRecipe(fmt.Sprintf("Bake %d", i), qty))
		var created recipe.Recipe
		decode(t, w, &created)
		ids = append(ids, created.ID)
	}

	for _, id := range ids {
		w := srv.do(t, http.MethodPost, "/api/v1/grocery/recipes/"+id, nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("AddRecipeToBasket: expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}

	w := srv.do(t, http.MethodGet, "/api/v1/grocery", nil)
	var basket struct {
		Recipes []grocery.RecipeEntry `json:"recipes"`
	}
	decode(t, w, &basket)
	if len(basket.Recipes) != 2 {
		t.Fatalf("Expected 2 basket entries, got %d", len(basket.Recipes))
	}

	w = srv.do(t, http.MethodGet, "/api/v1/grocery/combined", nil)
	var combined struct {
		Ingredients []grocery.CombinedIngredient `json:"ingredients"`
	}
	decode(t, w, &combined)
	if len(combined.Ingredients) != 1 {
		t.Fatalf("Expected 1 combined line, got %+v", combined.Ingredients)
	}
	if combined.Ingredients[0].TotalQuantity != 201.5 {
		t.Errorf("TotalQuantity = %v, want 201.5", combined.Ingredients[0].TotalQuantity)
	}

	itemID := basket.Recipes[0].Items[0].ID
	check := map[string]any{"recipeId": basket.Recipes[0].RecipeID, "itemId": itemID, "checked": true}
	w = srv.do(t, http.MethodPut, "/api/v1/grocery/check", check)
	if w.Code != http.StatusOK {
		t.Fatalf("SetItemChecked: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = srv.do(t, http.MethodGet, "/api/v1/grocery/export?onlyUnchecked=true", nil)
	var export map[string]string
	decode(t, w, &export)
	if export["text"] == "" {
		t.Error("Expected export text for unchecked items")
	}

	w = srv.do(t, http.MethodDelete, "/api/v1/grocery/recipes/"+ids[0], nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("RemoveRecipeFromBasket: expected 204, got %d", w.Code)
	}

	w = srv.do(t, http.MethodDelete, "/api/v1/grocery", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("ClearBasket: expected 204, got %d", w.Code)
	}

	w = srv.do(t, http.MethodGet, "/api/v1/grocery", nil)
	decode(t, w, &basket)
	if len(basket.Recipes) != 0 {
		t.Errorf("Basket not empty after clear: %+v", basket.Recipes)
	}
}
