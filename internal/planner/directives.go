package planner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/karsonthompson/mealdino-sub000/internal/conversation"
	"github.com/karsonthompson/mealdino-sub000/internal/llm"
	"github.com/karsonthompson/mealdino-sub000/internal/profile"
	"github.com/karsonthompson/mealdino-sub000/internal/recipe"
)

//go:embed directive_prompt.md
var directivePrompt string

// maxRoundTrips bounds the reasoning loop: the service must produce final
// directives within this many calls or the run falls back to heuristics.
const maxRoundTrips = 3

// resolverState is the explicit state of the bounded tool-calling loop.
type resolverState int

const (
	stateAwaitingResponse resolverState = iota
	stateExecutingTools
	stateDone
	stateFailed
)

// toolName enumerates the tools the reasoning service may call. Closed set;
// anything else is rejected with an error payload.
type toolName string

const toolCreateRecipe toolName = "create_recipe"

type toolCall struct {
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// resolverEnvelope is the union shape of a reasoning-service reply: either
// tool calls or terminal directive JSON.
type resolverEnvelope struct {
	ToolCalls         []toolCall `json:"tool_calls"`
	MealTypes         []string   `json:"mealTypes"`
	SelectedRecipeIDs []string   `json:"selectedRecipeIds"`
	Strictness        string     `json:"strictness"`
	Notes             []string   `json:"notes"`
	WhyThisPlan       string     `json:"whyThisPlan"`
}

type createRecipeInput struct {
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	PrepTimeMinutes int      `json:"prepTimeMinutes"`
	BaseServings    int      `json:"baseServings"`
	Ingredients     []string `json:"ingredients"`
	Calories        float64  `json:"calories"`
	Protein         float64  `json:"protein"`
	Carbs           float64  `json:"carbs"`
	Fat             float64  `json:"fat"`
}

type directivePromptData struct {
	StartDate       string
	EndDate         string
	Goal            string
	Strictness      profile.Strictness
	HardConstraints []string
	SoftPreferences []string
	Candidates      []recipe.Candidate
	Messages        []conversation.Message
	Revision        string
	Feedback        []string
}

// ResolveResult carries everything directive resolution produced. Directives
// is nil when the service failed or exhausted its round-trip budget; the
// created recipes survive either way.
type ResolveResult struct {
	Directives *Directives
	Created    []recipe.Candidate
	Pool       []recipe.Candidate
	Trace      []ToolTraceEntry
	Metas      []llm.AgentMeta
}

// resolveDirectives runs the bounded reasoning loop. Recipe creations
// requested by the service are applied immediately and not rolled back if a
// later round trip fails.
func (e *Engine) resolveDirectives(
	ctx context.Context,
	userID string,
	prof profile.PlanningProfile,
	dateRange DateRange,
	pool []recipe.Candidate,
	messages []conversation.Message,
	revision string,
) ResolveResult {
	result := ResolveResult{Pool: pool}
	if e.textGen == nil {
		result.Trace = append(result.Trace, trace("resolve_directives", "no reasoning service configured", true))
		return result
	}

	// Only the most recent messages feed the prompt.
	recent := messages
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	data := directivePromptData{
		StartDate:       dateRange.Start.Format("2006-01-02"),
		EndDate:         dateRange.End.Format("2006-01-02"),
		Goal:            prof.Goal,
		Strictness:      prof.Strictness,
		HardConstraints: prof.HardConstraints,
		SoftPreferences: prof.SoftPreferences,
		Messages:        recent,
		Revision:        revision,
	}

	state := stateAwaitingResponse
	for trip := 0; trip < maxRoundTrips; trip++ {
		data.Candidates = result.Pool
		prompt, err := buildDirectivePrompt(data)
		if err != nil {
			result.Trace = append(result.Trace, trace("resolve_directives", err.Error(), true))
			state = stateFailed
			break
		}

		start := time.Now()
		resp, err := e.textGen.GenerateContent(ctx, prompt)
		if err != nil {
			result.Trace = append(result.Trace, trace("resolve_directives", fmt.Sprintf("reasoning call failed: %v", err), true))
			state = stateFailed
			break
		}
		result.Metas = append(result.Metas, llm.AgentMeta{
			AgentName: "DirectiveResolver",
			Usage:     resp.Usage,
			Latency:   time.Since(start),
		})

		var envelope resolverEnvelope
		if err := json.Unmarshal([]byte(stripFences(resp.Content)), &envelope); err != nil {
			result.Trace = append(result.Trace, trace("resolve_directives", "unparseable reasoning response", true))
			data.Feedback = append(data.Feedback, `{"error":"invalid_json","hint":"respond with raw JSON only"}`)
			continue
		}

		if len(envelope.ToolCalls) > 0 {
			state = stateExecutingTools
			for _, call := range envelope.ToolCalls {
				feedback := e.executeToolCall(ctx, userID, call, &result)
				data.Feedback = append(data.Feedback, feedback)
			}
			state = stateAwaitingResponse
			continue
		}

		if directives := envelope.toDirectives(prof.Strictness); directives != nil {
			result.Directives = directives
			result.Trace = append(result.Trace,
				trace("resolve_directives", fmt.Sprintf("directives resolved after %d round trip(s)", trip+1), false))
			state = stateDone
			break
		}

		data.Feedback = append(data.Feedback, `{"error":"missing_meal_types","hint":"return the final directives JSON"}`)
	}

	if state != stateDone {
		result.Directives = nil
		result.Trace = append(result.Trace, trace("resolve_directives", "round-trip budget exhausted, falling back", true))
	}
	return result
}

// executeToolCall runs one requested tool and returns the feedback payload
// for the next round trip. Failures are captured as trace entries and fed
// back to the service rather than aborting the run.
func (e *Engine) executeToolCall(ctx context.Context, userID string, call toolCall, result *ResolveResult) string {
	switch toolName(call.Name) {
	case toolCreateRecipe:
		var input createRecipeInput
		if err := json.Unmarshal(call.Input, &input); err != nil {
			result.Trace = append(result.Trace, trace("create_recipe", fmt.Sprintf("malformed arguments: %v", err), true))
			return `{"tool":"create_recipe","error":"malformed arguments"}`
		}
		created, err := e.createRecipeFromTool(ctx, userID, input)
		if err != nil {
			result.Trace = append(result.Trace, trace("create_recipe", err.Error(), true))
			return fmt.Sprintf(`{"tool":"create_recipe","error":%q}`, err.Error())
		}
		result.Created = append(result.Created, created)
		result.Pool = append(result.Pool, created)
		result.Trace = append(result.Trace, trace("create_recipe", fmt.Sprintf("created recipe %q (%s)", created.Title, created.ID), false))
		return fmt.Sprintf(`{"tool":"create_recipe","recipeId":%q,"title":%q}`, created.ID, created.Title)
	default:
		result.Trace = append(result.Trace, trace("resolve_directives", fmt.Sprintf("unknown tool %q requested", call.Name), true))
		return fmt.Sprintf(`{"tool":%q,"error":"unknown tool"}`, call.Name)
	}
}

func (e *Engine) createRecipeFromTool(ctx context.Context, userID string, input createRecipeInput) (recipe.Candidate, error) {
	if strings.TrimSpace(input.Title) == "" {
		return recipe.Candidate{}, fmt.Errorf("create_recipe requires a title")
	}
	if len(input.Ingredients) == 0 {
		return recipe.Candidate{}, fmt.Errorf("create_recipe requires at least one ingredient")
	}

	category := recipe.Category(strings.ToLower(input.Category))
	switch category {
	case recipe.CategoryBreakfast, recipe.CategoryLunch, recipe.CategoryDinner, recipe.CategorySnack:
	default:
		category = recipe.CategoryDinner
	}
	if input.BaseServings <= 0 {
		input.BaseServings = 2
	}
	if input.PrepTimeMinutes <= 0 {
		input.PrepTimeMinutes = 30
	}

	return e.recipes.CreateRecipe(ctx, userID, recipe.Candidate{
		Title:           input.Title,
		Category:        category,
		PrepTimeMinutes: input.PrepTimeMinutes,
		BaseServings:    input.BaseServings,
		Ingredients:     input.Ingredients,
		Macros: recipe.Macros{
			Calories: input.Calories,
			Protein:  input.Protein,
			Carbs:    input.Carbs,
			Fat:      input.Fat,
		},
	})
}

// toDirectives converts a terminal envelope into directives, dropping
// unknown meal types and falling back to the profile's strictness when the
// service returned an invalid one.
func (env resolverEnvelope) toDirectives(fallback profile.Strictness) *Directives {
	var mealTypes []MealType
	for _, raw := range env.MealTypes {
		mt := MealType(strings.ToLower(strings.TrimSpace(raw)))
		switch mt {
		case MealBreakfast, MealLunch, MealDinner, MealSnack:
			mealTypes = append(mealTypes, mt)
		default:
			log.Printf("Warning: dropping unknown meal type %q from directives", raw)
		}
	}
	if len(mealTypes) == 0 {
		return nil
	}

	strictness := profile.Strictness(env.Strictness)
	switch strictness {
	case profile.StrictnessFlexible, profile.StrictnessBalanced, profile.StrictnessStrict:
	default:
		strictness = fallback
	}

	return &Directives{
		MealTypes:         mealTypes,
		Strictness:        strictness,
		SelectedRecipeIDs: env.SelectedRecipeIDs,
		Notes:             env.Notes,
		WhyThisPlan:       env.WhyThisPlan,
	}
}

// HeuristicDirectives derives directives from conversation keywords when
// the reasoning service is unavailable: any mentioned meal types are
// planned, defaulting to lunch and dinner.
func HeuristicDirectives(messages []conversation.Message, prof profile.PlanningProfile) Directives {
	var text strings.Builder
	for _, m := range messages {
		text.WriteString(strings.ToLower(m.Content))
		text.WriteString(" ")
	}
	joined := text.String()

	var mealTypes []MealType
	for _, mt := range []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack} {
		if strings.Contains(joined, string(mt)) {
			mealTypes = append(mealTypes, mt)
		}
	}
	if len(mealTypes) == 0 {
		mealTypes = []MealType{MealLunch, MealDinner}
	}

	return Directives{
		MealTypes:   mealTypes,
		Strictness:  prof.Strictness,
		WhyThisPlan: "Planned from your stated preferences without the reasoning service.",
	}
}

func buildDirectivePrompt(data directivePromptData) (string, error) {
	tmpl, err := template.New("directives").Parse(directivePrompt)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON
// despite the prompt's instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func trace(step, detail string, isErr bool) ToolTraceEntry {
	return ToolTraceEntry{Step: step, Detail: detail, IsError: isErr, Timestamp: time.Now().UTC()}
}
