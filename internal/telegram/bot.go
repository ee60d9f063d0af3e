package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/karsonthompson/mealdino-sub000/internal/config"
	"github.com/karsonthompson/mealdino-sub000/internal/conversation"
	"github.com/karsonthompson/mealdino-sub000/internal/importer"
	"github.com/karsonthompson/mealdino-sub000/internal/metrics"
	"github.com/karsonthompson/mealdino-sub000/internal/planner"
	"github.com/karsonthompson/mealdino-sub000/internal/profile"
	"github.com/karsonthompson/mealdino-sub000/internal/publisher"
)

// Bot wraps the Telegram API, the planning engine, and the importer.
type Bot struct {
	api           *tgbotapi.BotAPI
	engine        *planner.Engine
	importer      *importer.Importer
	metricsStore  *metrics.Store
	planRepo      *planner.PlanRepository
	conversations *conversation.Repository
	publish       publisher.Client
	cfg           *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook. publish may be
// nil when no blog is configured.
func NewBot(
	cfg *config.Config,
	engine *planner.Engine,
	imp *importer.Importer,
	metricsStore *metrics.Store,
	planRepo *planner.PlanRepository,
	conversations *conversation.Repository,
	publish publisher.Client,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:           bot,
		engine:        engine,
		importer:      imp,
		metricsStore:  metricsStore,
		planRepo:      planRepo,
		conversations: conversations,
		publish:       publish,
		cfg:           cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	if b.cfg.TelegramAllowUserID != 0 && update.Message.From.ID != b.cfg.TelegramAllowUserID {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	switch {
	case text == "/metrics":
		b.handleMetricsCommand(msg.Chat.ID)
	case text == "/publish":
		b.handlePublishCommand(msg)
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		b.handleImportRequest(msg)
	default:
		b.handlePlanRequest(msg)
	}
}

func (b *Bot) handleImportRequest(msg *tgbotapi.Message) {
	statusText := "✂️ *Importing recipe...*"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	userID := fmt.Sprintf("%d", msg.From.ID)
	candidate, meta, err := b.importer.ImportURL(ctx, userID, msg.Text)
	if recErr := b.metricsStore.RecordMeta(ctx, meta); recErr != nil {
		log.Printf("Warning: failed to record import metrics: %v", recErr)
	}

	var finalText string
	if err != nil {
		log.Printf("Error importing recipe: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error importing recipe:*\n```\n%v\n```", safeErr)
	} else {
		finalText = fmt.Sprintf("✅ *Recipe Saved!*\n\n*Title:* %s\n*Servings:* %d | *Time:* %d min",
			candidate.Title, candidate.BaseServings, candidate.PrepTimeMinutes)
	}
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handlePlanRequest(msg *tgbotapi.Message) {
	statusText := "🧑‍🍳 *Thinking...* \n(Selecting recipes and building your plan)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	userID := fmt.Sprintf("%d", msg.From.ID)
	weekStart := planner.NextMonday(time.Now())
	runID := fmt.Sprintf("%s-%s", userID, weekStart.Format("2006-01-02"))

	if err := b.conversations.Append(ctx, runID, "user", msg.Text); err != nil {
		log.Printf("Warning: failed to record conversation message: %v", err)
	}

	now := time.Now()
	prof := profile.PlanningProfile{
		Goal:                 msg.Text,
		DisclaimerAcceptedAt: &now,
		Preferences: profile.PlanPreferences{
			IncludeGlobalRecipes: true,
			IncludeUserRecipes:   true,
			AvoidRepeats:         true,
			AllowGeneration:      true,
			DefaultServings:      2,
		},
	}

	result, metas, err := b.engine.RunAgentPlanningTools(ctx, userID, runID, prof, planner.DateRange{
		Start: weekStart,
		End:   weekStart.AddDate(0, 0, 6),
	}, "")

	for _, m := range metas {
		if recErr := b.metricsStore.RecordMeta(ctx, m); recErr != nil {
			log.Printf("Warning: failed to record metrics for %s: %v", m.AgentName, recErr)
		}
	}

	if err != nil {
		log.Printf("Error generating plan: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText := fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", safeErr)
		edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
		edit.ParseMode = "Markdown"
		b.api.Send(edit)
		return
	}

	if _, err := b.planRepo.Save(ctx, userID, runID, result); err != nil {
		log.Printf("Warning: failed to save plan for user %s: %v", userID, err)
	}

	planText, shoppingText := formatPlanMarkdownParts(result)

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, planText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)

	shoppingMsg := tgbotapi.NewMessage(msg.Chat.ID, shoppingText)
	shoppingMsg.ParseMode = "Markdown"
	b.api.Send(shoppingMsg)
}

func (b *Bot) handlePublishCommand(msg *tgbotapi.Message) {
	if b.publish == nil {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "Publishing is not configured."))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	userID := fmt.Sprintf("%d", msg.From.ID)
	result, err := b.planRepo.GetLatest(ctx, userID)
	if err != nil || result == nil {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "No plan to publish yet."))
		return
	}

	title := fmt.Sprintf("Meal Plan — %s", time.Now().Format("January 2, 2006"))
	post, err := b.publish.PublishPlan(title, result)
	if err != nil {
		log.Printf("Error publishing plan: %v", err)
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Publishing failed."))
		return
	}
	b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("✅ Published: %s", post.Title)))
}

// formatPlanMarkdownParts renders the plan and the shopping list as two
// Telegram messages; long lists would overflow a single one.
func formatPlanMarkdownParts(result *planner.RunResult) (string, string) {
	titles := make(map[string]string, len(result.Output.RecipeCatalog))
	for _, c := range result.Output.RecipeCatalog {
		titles[c.ID] = c.Title
	}

	var pb strings.Builder
	pb.WriteString("📅 *Meal Plan*\n\n")
	for _, day := range result.Output.MealPlanDays {
		pb.WriteString(fmt.Sprintf("*%s*\n", day.Date))
		for _, slot := range day.Meals {
			title := titles[slot.RecipeID]
			if title == "" {
				title = slot.RecipeID
			}
			line := fmt.Sprintf("• %s: %s", slot.MealType, title)
			if slot.Source == planner.SourceLeftovers {
				line += " _(leftovers)_"
			}
			pb.WriteString(line + "\n")
		}
		for _, session := range day.Sessions {
			title := titles[session.RecipeID]
			if title == "" {
				title = session.RecipeID
			}
			pb.WriteString(fmt.Sprintf("🍳 batch cook: %s (%d servings)\n", title, session.Servings))
		}
		pb.WriteString("\n")
	}
	if result.Summary.WhyThisPlan != "" {
		pb.WriteString(fmt.Sprintf("_%s_\n", result.Summary.WhyThisPlan))
	}
	for _, v := range result.Summary.UnmetConstraints {
		pb.WriteString(fmt.Sprintf("⚠️ %s\n", v))
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")
	currentAisle := ""
	for _, item := range result.Output.ShoppingList.Totals {
		if item.Aisle != currentAisle {
			currentAisle = item.Aisle
			sb.WriteString(fmt.Sprintf("\n*%s*\n", currentAisle))
		}
		if item.Unit != "" {
			sb.WriteString(fmt.Sprintf("• %s — %.2f %s\n", item.DisplayName, item.Quantity, item.Unit))
		} else {
			sb.WriteString(fmt.Sprintf("• %s — %.2f\n", item.DisplayName, item.Quantity))
		}
	}
	if len(result.Output.ShoppingList.NeedsReview) > 0 {
		sb.WriteString("\n*Needs review*\n")
		for _, item := range result.Output.ShoppingList.NeedsReview {
			sb.WriteString(fmt.Sprintf("• %s (%s)\n", item.DisplayName, item.Raw))
		}
	}

	return pb.String(), sb.String()
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usage, err := b.metricsStore.GetDailyUsage(ctx, 7)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Error fetching metrics."))
		return
	}

	health := metrics.GetSysHealth(b.cfg.DatabasePath)

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Database: %s\n", health.DatabaseSize))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}
