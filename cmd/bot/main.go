package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"reelsync/internal/config"
	"reelsync/internal/container"
	"reelsync/internal/handlers"
	"reelsync/internal/logger"
	"reelsync/internal/services"
)

func main() {
	logger.Init()
	log := logger.Get()

	err := godotenv.Load(".env.local")
	if err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	if err := config.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	botToken, _ := config.TelegramConfig()

	ctx := context.Background()
	c, err := container.New(ctx)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize services")
	}
	defer c.Close()

	if err := services.SetBotCommands(ctx, botToken); err != nil {
		log.WithError(err).Warn("Failed to set bot command menu")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/webhook", handlers.WebhookHandler(c, botToken))

	log.Infof("Bot starting on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}
