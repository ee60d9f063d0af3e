package publisher

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/karsonthompson/mealdino-sub000/internal/planner"
)

// Post represents a single published post.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	HTML      string `json:"html"`
	UpdatedAt string `json:"updated_at"`
}

// postsResponse is the top-level structure of the admin API response.
type postsResponse struct {
	Posts []Post `json:"posts"`
}

// Client publishes plan summaries to a Ghost-compatible blog.
type Client interface {
	PublishPlan(title string, result *planner.RunResult) (*Post, error)
}

type blogClient struct {
	httpClient *http.Client
	baseURL    string
	adminKey   string
}

// NewClient creates a new publishing client. adminKey uses the "id:secret"
// format of the Ghost Admin API.
func NewClient(baseURL, adminKey string) Client {
	return &blogClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminKey:   adminKey,
	}
}

// PublishPlan renders the run result as HTML and creates a published post.
func (c *blogClient) PublishPlan(title string, result *planner.RunResult) (*Post, error) {
	token, err := c.createAdminToken()
	if err != nil {
		return nil, fmt.Errorf("failed to create admin token: %w", err)
	}

	newPost := map[string]interface{}{
		"posts": []map[string]interface{}{
			{
				"title":  title,
				"html":   renderPlanHTML(result),
				"status": "published",
			},
		},
	}

	body, _ := json.Marshal(newPost)
	url := fmt.Sprintf("%s/ghost/api/v3/admin/posts/?source=html", c.baseURL)

	req, err := http.NewRequest("POST", url, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var errResp interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("admin api error: status %d, body: %v", resp.StatusCode, errResp)
	}

	var response postsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}
	if len(response.Posts) == 0 {
		return nil, fmt.Errorf("no post returned from api")
	}
	return &response.Posts[0], nil
}

// createAdminToken generates a short-lived JWT for the Admin API.
func (c *blogClient) createAdminToken() (string, error) {
	keyParts := strings.Split(c.adminKey, ":")
	if len(keyParts) != 2 {
		return "", fmt.Errorf("invalid admin key format: expected id:secret")
	}

	id := keyParts[0]
	secret, err := hex.DecodeString(keyParts[1])
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"aud": "/v3/admin/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}

// renderPlanHTML turns a run result into simple post HTML: the day plan, the
// shopping list grouped by aisle, and the summary notes.
func renderPlanHTML(result *planner.RunResult) string {
	var sb strings.Builder

	if result.Summary.WhyThisPlan != "" {
		sb.WriteString(fmt.Sprintf("<p><i>%s</i></p>", result.Summary.WhyThisPlan))
	}

	sb.WriteString("<h2>Meal Plan</h2><ul>")
	titles := make(map[string]string, len(result.Output.RecipeCatalog))
	for _, c := range result.Output.RecipeCatalog {
		titles[c.ID] = c.Title
	}
	for _, day := range result.Output.MealPlanDays {
		for _, slot := range day.Meals {
			title := titles[slot.RecipeID]
			if title == "" {
				title = slot.RecipeID
			}
			note := ""
			if slot.Source == planner.SourceLeftovers {
				note = " (leftovers)"
			}
			sb.WriteString(fmt.Sprintf("<li>%s — %s: %s%s</li>", day.Date, slot.MealType, title, note))
		}
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h2>Shopping List</h2>")
	currentAisle := ""
	sb.WriteString("<ul>")
	for _, item := range result.Output.ShoppingList.Totals {
		if item.Aisle != currentAisle {
			currentAisle = item.Aisle
			sb.WriteString(fmt.Sprintf("<li><strong>%s</strong></li>", currentAisle))
		}
		if item.Unit != "" {
			sb.WriteString(fmt.Sprintf("<li>%s — %.2f %s</li>", item.DisplayName, item.Quantity, item.Unit))
		} else {
			sb.WriteString(fmt.Sprintf("<li>%s — %.2f</li>", item.DisplayName, item.Quantity))
		}
	}
	sb.WriteString("</ul>")

	if len(result.Summary.Notes) > 0 {
		sb.WriteString("<hr><ul>")
		for _, note := range result.Summary.Notes {
			sb.WriteString(fmt.Sprintf("<li>%s</li>", note))
		}
		sb.WriteString("</ul>")
	}

	return sb.String()
}
