package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"retail-assistant/internal/analytics"
	"retail-assistant/internal/assistant"
	"retail-assistant/internal/config"
	"retail-assistant/internal/history"
	"retail-assistant/internal/llm"
	"retail-assistant/internal/query"
	"retail-assistant/internal/scheduler"
	"retail-assistant/internal/storage"
	"retail-assistant/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	llmClient, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider), cfg.LLMModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	store, err := storage.NewFileStore(cfg.ChatHistoryFile)
	if err != nil {
		log.Fatalf("failed to init history store: %v", err)
	}

	svc := assistant.New(llmClient, query.NewExecutor(cfg.DBFile))

	sched := scheduler.New(cfg.DigestCron)
	sched.SetReportFunction(func(ctx context.Context) error {
		d := analytics.Summarize(store.Load(), time.Now().UTC().Add(-24*time.Hour))
		log.Printf("📊 history digest since %s: %s", d.SinceDate, d)
		return nil
	})
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	srv := web.NewServer(svc, store, history.NewManager(store), cfg.HTTPPort)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("web server failed: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutting down")
		if err := srv.Stop(); err != nil {
			log.Printf("failed to stop web server: %v", err)
		}
	}
}
