// Command palserver runs the assistant's HTTP server: the two-step SSE
// chat protocol, synchronous chat endpoints, the confirmation gate, and
// an AG-UI endpoint for protocol-compatible frontends.
//
// Configuration is via environment variables (a .env file is loaded if
// present):
//
//	PAL_PORT           - Server port (default: 8000)
//	PAL_LOG_LEVEL      - Log level: debug, info, warn, error (default: info)
//	PAL_PROVIDER       - Provider: anthropic, openai, or google (required)
//	PAL_MODEL          - Model override (optional, uses provider default)
//	PAL_MAX_ITERATIONS - Max agent iterations per run (default: 8)
//	PAL_TIMEOUT        - Per-run timeout (default: 2m)
//	PAL_THREAD_TTL     - Idle thread lifetime (default: 30m)
//	PAL_HISTORY_WINDOW - Messages handed to the model per step (default: 50)
//	PAL_DEMO_DATA      - Seed demo calendar/mail/tasks data (default: true)
//	ANTHROPIC_API_KEY  - Anthropic API key
//	OPENAI_API_KEY     - OpenAI API key
//	GOOGLE_API_KEY     - Google API key
//
// Usage:
//
//	PAL_PROVIDER=anthropic go run ./cmd/palserver
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pal "github.com/agenticpal/pal"
	"github.com/agenticpal/pal/agent"
	"github.com/agenticpal/pal/catalog"
	"github.com/agenticpal/pal/meta"
	"github.com/agenticpal/pal/provider/anthropic"
	"github.com/agenticpal/pal/provider/google"
	"github.com/agenticpal/pal/provider/openai"
	"github.com/agenticpal/pal/server"
	"github.com/agenticpal/pal/service"
	"github.com/agenticpal/pal/thread"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	provider, err := createProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to create provider: %v", err)
	}

	// Tool catalog bound to in-memory connectors
	cal := service.NewCalendar()
	mail := service.NewMail()
	tasks := service.NewTasks()
	if cfg.SeedDemoData {
		seedDemoData(cal, mail, tasks)
		logger.Info("seeded demo data")
	}

	cat := catalog.Default()
	reg := catalog.NewRegistry(cat)
	service.MustBindAll(reg, cal, mail, tasks)
	logger.Info("catalog ready", "tools", cat.Len())

	facade := meta.NewFacade(cat, reg)
	threads := thread.NewManager(
		thread.WithTTL(cfg.ThreadTTL),
		thread.WithHistoryWindow(cfg.HistoryWindow),
	)

	loopOpts := []agent.Option{
		agent.WithMaxIterations(cfg.MaxIterations),
		agent.WithTimeout(cfg.Timeout),
	}
	if cfg.Model != "" {
		loopOpts = append(loopOpts, agent.WithModel(cfg.Model))
	}
	loop := agent.NewLoop(provider, facade, reg, loopOpts...)

	srv := server.New(loop, threads, server.WithLogger(logger))

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	// Idle thread sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepLoop(sweepCtx, threads, logger)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("server starting",
		"port", cfg.Port,
		"provider", cfg.Provider,
	)
	log.Printf("Chat:    POST http://localhost:%s/chat", cfg.Port)
	log.Printf("Stream:  POST http://localhost:%s/chat/message then GET /chat/stream", cfg.Port)
	log.Printf("AG-UI:   POST http://localhost:%s/agui", cfg.Port)
	log.Printf("Health:  GET  http://localhost:%s/health", cfg.Port)

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	logger.Info("server stopped")
}

func createProvider(cfg *Config) (pal.ModelProvider, error) {
	switch cfg.Provider {
	case "anthropic":
		var opts []anthropic.ClientOption
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		return anthropic.New(cfg.AnthropicKey, opts...), nil
	case "openai":
		var opts []openai.ClientOption
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		return openai.New(cfg.OpenAIKey, opts...), nil
	case "google":
		var opts []google.ClientOption
		if cfg.Model != "" {
			opts = append(opts, google.WithModel(cfg.Model))
		}
		return google.New(context.Background(), cfg.GoogleKey, opts...)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// sweepLoop drops idle threads on a fraction of the TTL.
func sweepLoop(ctx context.Context, threads *thread.Manager, logger *slog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if dropped := threads.Sweep(now); dropped > 0 {
				logger.Debug("swept idle threads", "dropped", dropped)
			}
		}
	}
}

// seedDemoData populates the in-memory connectors so the assistant has
// something to talk about out of the box.
func seedDemoData(cal *service.Calendar, mail *service.Mail, tasks *service.Tasks) {
	now := time.Now()
	today := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	cal.Seed(
		service.CalendarEvent{
			Title:     "Team standup",
			Start:     today + "T09:30:00",
			End:       today + "T09:45:00",
			Attendees: []string{"dana@example.com", "sam@example.com"},
		},
		service.CalendarEvent{
			Title:       "Project review",
			Start:       today + "T15:00:00",
			End:         today + "T16:00:00",
			Description: "Quarterly review with the platform team",
		},
		service.CalendarEvent{
			Title: "Dentist",
			Start: tomorrow + "T11:00:00",
			End:   tomorrow + "T12:00:00",
		},
	)

	mail.Seed(
		service.MailMessage{
			From:     "dana@example.com",
			Subject:  "Review notes for Thursday",
			Snippet:  "Attached the notes from last week...",
			Body:     "Attached the notes from last week. Please read before the project review on Thursday.",
			Unread:   true,
			Received: now.Add(-2 * time.Hour),
		},
		service.MailMessage{
			From:     "billing@example.com",
			Subject:  "Your invoice is ready",
			Snippet:  "Invoice #4021 for August is ready...",
			Body:     "Invoice #4021 for August is ready. Total due: $42.00.",
			Unread:   true,
			Received: now.Add(-26 * time.Hour),
		},
		service.MailMessage{
			From:     "sam@example.com",
			Subject:  "Lunch on Friday?",
			Snippet:  "Want to grab lunch on Friday...",
			Body:     "Want to grab lunch on Friday? There's a new place near the office.",
			Unread:   false,
			Received: now.Add(-3 * 24 * time.Hour),
		},
	)

	ctx := context.Background()
	tasks.CreateTask(ctx, map[string]any{"title": "Prepare review slides", "due": today})
	tasks.CreateTask(ctx, map[string]any{"title": "Pay August invoice", "due": tomorrow})
	tasks.CreateTask(ctx, map[string]any{"title": "Book flights for September trip"})
}
