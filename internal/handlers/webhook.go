package handlers

import (
	"context"
	"net/http"
	"time"

	"reelsync/internal/bot"
	"reelsync/internal/config"
	"reelsync/internal/container"
	"reelsync/internal/services"
)

func WebhookHandler(c *container.Container, botToken string) http.HandlerFunc {
	_, allowedChatID := config.TelegramConfig()

	commandHandler := bot.NewHandler(
		c.Engine,
		c.Notion,
		c.Watchlist,
		c.Users,
		c.Logger,
		botToken,
		allowedChatID,
	)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		update, err := services.ParseTelegramRequest(r)
		if err != nil {
			c.Logger.WithError(err).Error("Error parsing request")
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

		go func() {
			defer cancel()
			commandHandler.ProcessMessage(ctx, update)
		}()

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
