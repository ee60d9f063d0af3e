package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/karsonthompson/mealdino-sub000/internal/llm"
	"github.com/karsonthompson/mealdino-sub000/internal/recipe"
)

// RecipeCreator persists imported recipes.
type RecipeCreator interface {
	CreateRecipe(ctx context.Context, userID string, c recipe.Candidate) (recipe.Candidate, error)
}

// Importer fetches a recipe page and turns it into a stored candidate.
type Importer struct {
	recipes RecipeCreator
	textGen llm.TextGenerator
}

// extractedRecipe is the shape the extraction prompt asks for.
type extractedRecipe struct {
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	Ingredients     []string `json:"ingredients"`
	Steps           []string `json:"steps"`
	PrepTimeMinutes int      `json:"prepTimeMinutes"`
	BaseServings    int      `json:"baseServings"`
}

// NewImporter creates a new Importer instance.
func NewImporter(recipes RecipeCreator, textGen llm.TextGenerator) *Importer {
	return &Importer{
		recipes: recipes,
		textGen: textGen,
	}
}

// ImportURL fetches the URL, extracts the recipe, and saves it for the user.
func (i *Importer) ImportURL(ctx context.Context, userID, url string) (recipe.Candidate, llm.AgentMeta, error) {
	content, err := i.fetchAndCleanHTML(url)
	if err != nil {
		return recipe.Candidate{}, llm.AgentMeta{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe details from the following page text.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "category": "breakfast|lunch|dinner|snack",
  "ingredients": ["2 cups flour", "1 tsp salt", ...],
  "steps": ["Step 1 description", "Step 2 description", ...],
  "prepTimeMinutes": 30,
  "baseServings": 4
}

Page text:
%s
`, content)

	start := time.Now()
	resp, err := i.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return recipe.Candidate{}, llm.AgentMeta{}, fmt.Errorf("extraction failed: %w", err)
	}
	meta := llm.AgentMeta{
		AgentName: "RecipeImporter",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	var extracted extractedRecipe
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return recipe.Candidate{}, meta, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	if strings.TrimSpace(extracted.Title) == "" || len(extracted.Ingredients) == 0 {
		return recipe.Candidate{}, meta, fmt.Errorf("page does not look like a recipe")
	}

	candidate, err := i.recipes.CreateRecipe(ctx, userID, toCandidate(extracted))
	if err != nil {
		return recipe.Candidate{}, meta, fmt.Errorf("failed to save imported recipe: %w", err)
	}
	return candidate, meta, nil
}

func toCandidate(e extractedRecipe) recipe.Candidate {
	category := recipe.Category(strings.ToLower(e.Category))
	switch category {
	case recipe.CategoryBreakfast, recipe.CategoryLunch, recipe.CategoryDinner, recipe.CategorySnack:
	default:
		category = recipe.CategoryDinner
	}
	if e.BaseServings <= 0 {
		e.BaseServings = 2
	}
	if e.PrepTimeMinutes <= 0 {
		e.PrepTimeMinutes = 30
	}
	return recipe.Candidate{
		Title:           e.Title,
		Category:        category,
		PrepTimeMinutes: e.PrepTimeMinutes,
		BaseServings:    e.BaseServings,
		Ingredients:     e.Ingredients,
	}
}

func (i *Importer) fetchAndCleanHTML(url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save extraction tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
