package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"reelsync/internal/models"
	"reelsync/internal/services"
	"reelsync/internal/sync"
)

type BotCommand struct {
	Command string
	Args    []string
	UserID  string
	ChatID  string
}

type Handler struct {
	engine        *sync.Engine
	store         *services.NotionClient
	watchlist     *services.WatchlistService
	users         *services.UserService
	logger        *logrus.Logger
	botToken      string
	allowedChatID string
}

func NewHandler(engine *sync.Engine, store *services.NotionClient, watchlist *services.WatchlistService,
	users *services.UserService, logger *logrus.Logger, botToken, allowedChatID string) *Handler {
	return &Handler{
		engine:        engine,
		store:         store,
		watchlist:     watchlist,
		users:         users,
		logger:        logger,
		botToken:      botToken,
		allowedChatID: allowedChatID,
	}
}

func (h *Handler) ProcessMessage(ctx context.Context, update *models.Update) {
	if update.Message.Text == "" {
		return
	}

	userID := strconv.Itoa(update.Message.From.Id)
	chatID := strconv.Itoa(update.Message.Chat.Id)
	text := strings.TrimSpace(update.Message.Text)

	// An empty allowed chat id leaves the bot public.
	if h.allowedChatID != "" && chatID != h.allowedChatID {
		h.logger.WithField("chat_id", chatID).Info("Unauthorized chat, ignoring")
		h.sendMessage(ctx, chatID, "⛔️ You are not authorized to use this bot.")
		return
	}

	if h.users != nil {
		if err := h.users.EnsureUserExists(ctx, userID, update.Message.From.Username); err != nil {
			h.logger.WithError(err).Warn("Failed to ensure user exists")
		}
	}

	command := h.parseCommand(text, userID, chatID)
	h.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"command": command.Command,
		"args":    command.Args,
	}).Info("Processing command")

	switch command.Command {
	case "/start", "/help":
		h.handleStart(ctx, command)
	case "/add":
		h.handleAdd(ctx, command)
	case "/search":
		h.handleSearch(ctx, command)
	case "/towatch":
		h.handleList(ctx, command, models.StatusToWatch)
	case "/watching":
		h.handleWatching(ctx, command)
	case "/watched":
		h.handleStatusChange(ctx, command, models.StatusWatched)
	case "/history":
		h.handleHistory(ctx, command)
	default:
		h.sendMessage(ctx, command.ChatID, "Unknown command. Use /start to see available commands")
	}
}

func (h *Handler) parseCommand(text, userID, chatID string) BotCommand {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return BotCommand{UserID: userID, ChatID: chatID}
	}

	return BotCommand{
		Command: parts[0],
		Args:    parts[1:],
		UserID:  userID,
		ChatID:  chatID,
	}
}

func (h *Handler) handleStart(ctx context.Context, cmd BotCommand) {
	welcomeMessage := `🎬 <b>Watchlist Bot</b>

I keep your movie and TV watchlist in Notion.

/add title — add or refresh an entry
/search title — search your watchlist
/towatch — list everything still to watch
/watching — list what you are watching
/watching title — mark an entry as Watching
/watched title — mark an entry as Watched
/history — your recent syncs`

	h.sendMessage(ctx, cmd.ChatID, welcomeMessage)
}

func (h *Handler) handleAdd(ctx context.Context, cmd BotCommand) {
	if len(cmd.Args) == 0 {
		h.sendMessage(ctx, cmd.ChatID, "⚠️ Usage: /add title")
		return
	}

	query := strings.Join(cmd.Args, " ")
	h.sendTyping(ctx, cmd.ChatID)

	result, err := h.engine.SyncOne(ctx, query)
	if err != nil {
		h.sendMessage(ctx, cmd.ChatID, renderSyncError(query, err))
		return
	}

	h.watchlist.Invalidate(ctx)
	if h.users != nil {
		if err := h.users.RecordSync(ctx, cmd.UserID, query, result.Title, result.ExternalID, string(result.Outcome)); err != nil {
			h.logger.WithError(err).Warn("Failed to record sync history")
		}
	}

	switch result.Outcome {
	case sync.OutcomeCreated:
		h.sendMessage(ctx, cmd.ChatID, fmt.Sprintf("🆕 Added %q to your watchlist", result.Title))
	default:
		h.sendMessage(ctx, cmd.ChatID, fmt.Sprintf("✅ Refreshed %q in your watchlist", result.Title))
	}
}

func (h *Handler) handleSearch(ctx context.Context, cmd BotCommand) {
	if len(cmd.Args) == 0 {
		h.sendMessage(ctx, cmd.ChatID, "⚠️ Usage: /search title")
		return
	}

	query := strings.Join(cmd.Args, " ")
	records, err := h.store.FindByTitle(ctx, query, false)
	if err != nil {
		h.logger.WithError(err).Error("Failed to search watchlist")
		h.sendMessage(ctx, cmd.ChatID, "Error occurred while searching. Please try again later.")
		return
	}
	if len(records) == 0 {
		h.sendMessage(ctx, cmd.ChatID, fmt.Sprintf("📭 No entries found matching %q.", query))
		return
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("🔎 Found %d result(s) for %q:\n\n", len(records), query))
	for _, record := range records {
		message.WriteString("• " + formatRecord(record) + "\n")
	}
	h.sendMessage(ctx, cmd.ChatID, message.String())
}

func (h *Handler) handleWatching(ctx context.Context, cmd BotCommand) {
	if len(cmd.Args) > 0 {
		h.handleStatusChange(ctx, cmd, models.StatusWatching)
		return
	}
	h.handleList(ctx, cmd, models.StatusWatching)
}

func (h *Handler) handleList(ctx context.Context, cmd BotCommand, status models.Status) {
	records, err := h.watchlist.ListByStatus(ctx, status)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list watchlist")
		h.sendMessage(ctx, cmd.ChatID, "Error occurred while listing. Please try again later.")
		return
	}
	if len(records) == 0 {
		if status == models.StatusToWatch {
			h.sendMessage(ctx, cmd.ChatID, "🎉 Your watchlist is empty! Add something with /add.")
		} else {
			h.sendMessage(ctx, cmd.ChatID, "📭 Nothing here yet.")
		}
		return
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("<b>%s</b> — %d item(s):\n\n", status.Label(), len(records)))
	for _, record := range records {
		message.WriteString("• " + formatRecord(record) + "\n")
	}
	h.sendMessage(ctx, cmd.ChatID, message.String())
}

func (h *Handler) handleStatusChange(ctx context.Context, cmd BotCommand, status models.Status) {
	if len(cmd.Args) == 0 {
		h.sendMessage(ctx, cmd.ChatID, fmt.Sprintf("⚠️ Usage: %s title", cmd.Command))
		return
	}

	title := strings.Join(cmd.Args, " ")
	match, err := h.engine.Matcher().FindByTitle(ctx, title)
	if err != nil {
		h.logger.WithError(err).Error("Failed to look up record")
		h.sendMessage(ctx, cmd.ChatID, "Error occurred while updating. Please try again later.")
		return
	}
	if match.None() {
		h.sendMessage(ctx, cmd.ChatID, fmt.Sprintf("❌ Could not find %q in your watchlist.", title))
		return
	}
	if match.Ambiguous() {
		h.sendMessage(ctx, cmd.ChatID, fmt.Sprintf("⚠️ Found %d matches for %q. Please be more specific.", len(match.Candidates), title))
		return
	}

	if err := h.store.UpdateStatus(ctx, match.Record.ID, status); err != nil {
		h.logger.WithError(err).Error("Failed to update status")
		h.sendMessage(ctx, cmd.ChatID, "Error occurred while updating. Please try again later.")
		return
	}
	h.watchlist.Invalidate(ctx)

	h.sendMessage(ctx, cmd.ChatID, fmt.Sprintf("✅ Marked %q as %s.", match.Record.Title, status.Label()))
}

func (h *Handler) handleHistory(ctx context.Context, cmd BotCommand) {
	if h.users == nil {
		h.sendMessage(ctx, cmd.ChatID, "History is not available.")
		return
	}

	events, err := h.users.RecentHistory(ctx, cmd.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load sync history")
		h.sendMessage(ctx, cmd.ChatID, "Error occurred while loading history. Please try again later.")
		return
	}
	if len(events) == 0 {
		h.sendMessage(ctx, cmd.ChatID, "📭 No syncs yet. Add something with /add.")
		return
	}

	var message strings.Builder
	message.WriteString("🕘 Your recent syncs:\n\n")
	for _, event := range events {
		message.WriteString(fmt.Sprintf("• %s — %s (%s)\n",
			event.Title, event.Outcome, event.SyncedAt.Format("Jan 2 15:04")))
	}
	h.sendMessage(ctx, cmd.ChatID, message.String())
}

func renderSyncError(query string, err error) string {
	var ambiguous *sync.AmbiguousMatchError
	switch {
	case errors.Is(err, sync.ErrNotFound):
		return fmt.Sprintf("📭 No results found for %q.", query)
	case errors.Is(err, sync.ErrUnsupportedMediaType):
		return fmt.Sprintf("⚠️ Found a result for %q, but it's not a movie or TV show.", query)
	case errors.As(err, &ambiguous):
		return fmt.Sprintf("⚠️ Found %d existing entries matching %q. Please be more specific.", ambiguous.Count, ambiguous.Query)
	default:
		return "❌ Something went wrong. Please try again later."
	}
}

func formatRecord(record models.Record) string {
	line := record.Title
	if record.Year != nil {
		line += fmt.Sprintf(" (%d)", *record.Year)
	}
	if label := record.Status.Label(); label != "" {
		line += " — " + label
	}
	return line
}

func (h *Handler) sendTyping(ctx context.Context, chatID string) {
	chatIDInt, err := strconv.Atoi(chatID)
	if err != nil {
		return
	}
	if err := services.SendTypingAction(ctx, h.botToken, chatIDInt); err != nil {
		h.logger.WithError(err).Debug("Failed to send typing action")
	}
}

func (h *Handler) sendMessage(ctx context.Context, chatID, text string) {
	chatIDInt, err := strconv.Atoi(chatID)
	if err != nil {
		h.logger.WithError(err).Error("Invalid chat ID")
		return
	}

	if err := services.SendTelegramMessage(ctx, h.botToken, chatIDInt, text); err != nil {
		h.logger.WithError(err).Error("Failed to send message")
	}
}
