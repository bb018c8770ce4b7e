package importer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"recipe-planner/internal/recipe"
)

// ParseBulk reads a recipe export and returns the recipes it contains. Two
// formats are accepted: a single JSON array of recipe objects, or JSON lines
// with one object per line. Blank lines are skipped.
func ParseBulk(r io.Reader) ([]recipe.Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import data: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var recipes []recipe.Recipe
		if err := json.Unmarshal([]byte(trimmed), &recipes); err != nil {
			return nil, fmt.Errorf("parsing recipe array: %w", err)
		}
		return validateBulk(recipes)
	}

	var recipes []recipe.Recipe
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec recipe.Recipe
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNo, err)
		}
		recipes = append(recipes, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading import lines: %w", err)
	}
	return validateBulk(recipes)
}

func validateBulk(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
	for i, rec := range recipes {
		if strings.TrimSpace(rec.Title) == "" {
			return nil, fmt.Errorf("recipe %d has no title", i+1)
		}
	}
	return recipes, nil
}
