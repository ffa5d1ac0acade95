package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"reelsync/internal/models"
)

const telegramAPIURL = "https://api.telegram.org/bot"

// SendTelegramMessage sends an HTML-formatted text message to a Telegram chat.
//
// Returns an error if marshaling the request, sending the HTTP request,
// or receiving a non-OK response from the Telegram API fails.
func SendTelegramMessage(ctx context.Context, botToken string, chatId int, text string) error {
	response := models.TelegramResponse{
		ChatId:    chatId,
		Text:      text,
		ParseMode: "HTML",
	}

	jsonData, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s%s/sendMessage", telegramAPIURL, botToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error (status %d)", resp.StatusCode)
	}

	return nil
}

// SetBotCommands sets the list of available commands for the bot.
//
// These commands appear in Telegram's command menu. Returns an error if
// marshaling or sending the request fails.
func SetBotCommands(ctx context.Context, botToken string) error {
	commands := []models.BotCommandMenu{
		{Command: "start", Description: "🚀 Start the bot and see welcome message"},
		{Command: "add", Description: "➕ Add a movie or show to your watchlist"},
		{Command: "search", Description: "🔍 Search your watchlist by title"},
		{Command: "towatch", Description: "📝 List everything still to watch"},
		{Command: "watching", Description: "🎬 List or mark what you are watching"},
		{Command: "watched", Description: "✅ Mark an entry as watched"},
		{Command: "history", Description: "🕘 Show your recent syncs"},
		{Command: "help", Description: "❓ Show help and available commands"},
	}

	payload := map[string]interface{}{
		"commands": commands,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal commands: %w", err)
	}

	url := fmt.Sprintf("%s%s/setMyCommands", telegramAPIURL, botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create set commands request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("set bot commands API error (status %d)", resp.StatusCode)
	}

	return nil
}

// SendTypingAction sends a "typing..." action to a Telegram chat,
// indicating the bot is working or processing.
func SendTypingAction(ctx context.Context, botToken string, chatId int) error {
	payload := map[string]interface{}{
		"chat_id": chatId,
		"action":  "typing",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal typing action: %w", err)
	}

	url := fmt.Sprintf("%s%s/sendChatAction", telegramAPIURL, botToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create typing action request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send typing action: %w", err)
	}
	defer resp.Body.Close()

	return nil
}

// ParseTelegramRequest parses an incoming Telegram webhook HTTP request
// and returns the decoded Update object.
func ParseTelegramRequest(r *http.Request) (*models.Update, error) {
	var update models.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		return nil, err
	}
	return &update, nil
}
