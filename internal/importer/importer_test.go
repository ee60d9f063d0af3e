package importer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/karsonthompson/mealdino-sub000/internal/llm"
	"github.com/karsonthompson/mealdino-sub000/internal/recipe"
)

// --- Mocks ---

type MockRecipeCreator struct {
	Created     *recipe.Candidate
	ShouldError bool
}

func (m *MockRecipeCreator) CreateRecipe(_ context.Context, userID string, c recipe.Candidate) (recipe.Candidate, error) {
	if m.ShouldError {
		return recipe.Candidate{}, fmt.Errorf("mock store error")
	}
	c.ID = "imported-1"
	c.OwnerID = userID
	m.Created = &c
	return c, nil
}

type MockTextGenerator struct {
	Response    string
	ShouldError bool
}

func (m *MockTextGenerator) GenerateContent(_ context.Context, _ string) (llm.ContentResponse, error) {
	if m.ShouldError {
		return llm.ContentResponse{}, fmt.Errorf("mock ai error")
	}
	return llm.ContentResponse{Content: m.Response}, nil
}

// --- Tests ---

func TestFetchAndCleanHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html := `
		<html>
			<head><script>alert('bad');</script></head>
			<body>
				<h1>Tasty Recipe</h1>
				<div class="ads">Buy stuff!</div>
				<p>Mix flour and water.</p>
				<script>more_bad_stuff()</script>
				<footer>Copyright 2024</footer>
			</body>
		</html>`
		w.Write([]byte(html))
	}))
	defer ts.Close()

	imp := NewImporter(&MockRecipeCreator{}, &MockTextGenerator{})

	cleanText, err := imp.fetchAndCleanHTML(ts.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(cleanText, "alert('bad')") {
		t.Error("Failed to remove <script> tags")
	}
	if strings.Contains(cleanText, "Buy stuff!") {
		t.Error("Failed to remove .ads class")
	}
	if strings.Contains(cleanText, "Copyright 2024") {
		t.Error("Failed to remove <footer>")
	}
	if !strings.Contains(cleanText, "Tasty Recipe") {
		t.Error("Expected to find 'Tasty Recipe'")
	}
	if !strings.Contains(cleanText, "Mix flour and water.") {
		t.Error("Expected to find body content")
	}
}

func TestImportURL_Success(t *testing.T) {
	aiResponse := `{"title": "Mock Pie", "category": "dinner", "ingredients": ["2 apples", "1 cup flour"], "steps": ["Bake"], "prepTimeMinutes": 60, "baseServings": 8}`

	store := &MockRecipeCreator{}
	imp := NewImporter(store, &MockTextGenerator{Response: aiResponse})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Some Content</body></html>"))
	}))
	defer ts.Close()

	candidate, meta, err := imp.ImportURL(context.Background(), "user-1", ts.URL)
	if err != nil {
		t.Fatalf("ImportURL failed: %v", err)
	}

	if candidate.Title != "Mock Pie" {
		t.Errorf("Expected title 'Mock Pie', got '%s'", candidate.Title)
	}
	if candidate.BaseServings != 8 || candidate.PrepTimeMinutes != 60 {
		t.Errorf("Expected servings 8 / 60 min, got %d / %d", candidate.BaseServings, candidate.PrepTimeMinutes)
	}
	if store.Created == nil {
		t.Fatal("Expected CreateRecipe to be called")
	}
	if store.Created.OwnerID != "user-1" {
		t.Errorf("Expected owner 'user-1', got '%s'", store.Created.OwnerID)
	}
	if meta.AgentName != "RecipeImporter" {
		t.Errorf("Expected agent meta, got '%s'", meta.AgentName)
	}
}

func TestImportURL_Defaults(t *testing.T) {
	aiResponse := `{"title": "Mystery Bowl", "category": "brunch", "ingredients": ["1 cup rice"]}`

	store := &MockRecipeCreator{}
	imp := NewImporter(store, &MockTextGenerator{Response: aiResponse})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>rice bowl</body></html>"))
	}))
	defer ts.Close()

	candidate, _, err := imp.ImportURL(context.Background(), "user-1", ts.URL)
	if err != nil {
		t.Fatalf("ImportURL failed: %v", err)
	}
	if candidate.Category != recipe.CategoryDinner {
		t.Errorf("Expected unknown category to default to dinner, got '%s'", candidate.Category)
	}
	if candidate.BaseServings != 2 || candidate.PrepTimeMinutes != 30 {
		t.Errorf("Expected default servings/time, got %d / %d", candidate.BaseServings, candidate.PrepTimeMinutes)
	}
}

func TestImportURL_NotARecipe(t *testing.T) {
	aiResponse := `{"title": "", "ingredients": []}`
	imp := NewImporter(&MockRecipeCreator{}, &MockTextGenerator{Response: aiResponse})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>About us</body></html>"))
	}))
	defer ts.Close()

	if _, _, err := imp.ImportURL(context.Background(), "user-1", ts.URL); err == nil {
		t.Fatal("Expected an error for a non-recipe page")
	}
}

func TestImportURL_ExtractionError(t *testing.T) {
	imp := NewImporter(&MockRecipeCreator{}, &MockTextGenerator{ShouldError: true})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>content</body></html>"))
	}))
	defer ts.Close()

	if _, _, err := imp.ImportURL(context.Background(), "user-1", ts.URL); err == nil {
		t.Fatal("Expected an error when extraction fails")
	}
}
