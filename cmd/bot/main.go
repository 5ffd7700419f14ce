package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"retail-assistant/internal/assistant"
	"retail-assistant/internal/config"
	"retail-assistant/internal/history"
	"retail-assistant/internal/llm"
	"retail-assistant/internal/query"
	"retail-assistant/internal/storage"
	"retail-assistant/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		log.Fatalf("TELEGRAM_BOT_TOKEN is required for the bot")
	}

	llmClient, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider), cfg.LLMModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	store, err := storage.NewFileStore(cfg.ChatHistoryFile)
	if err != nil {
		log.Fatalf("failed to init history store: %v", err)
	}

	svc := assistant.New(llmClient, query.NewExecutor(cfg.DBFile))

	bot, err := telegram.New(cfg.TelegramBotToken, svc, store, history.NewManager(store))
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	bot.Start(ctx)
}
