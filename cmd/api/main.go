package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intent-assistant/config"
	_ "intent-assistant/docs" // Swagger docs
	"intent-assistant/internal/conversation"
	wsDelivery "intent-assistant/internal/conversation/delivery/websocket"
	"intent-assistant/internal/gatherer"
	"intent-assistant/internal/gatherer/sources"
	"intent-assistant/internal/httpserver"
	"intent-assistant/internal/middleware"
	"intent-assistant/internal/orchestrator"
	"intent-assistant/internal/retry"
	"intent-assistant/internal/schema"
	"intent-assistant/internal/strategy"
	taskRepo "intent-assistant/internal/task/repository/sqlite"
	"intent-assistant/internal/task/usecase"
	"intent-assistant/internal/validation"
	"intent-assistant/pkg/datemath"
	"intent-assistant/pkg/gcalendar"
	"intent-assistant/pkg/log"
	pkgSqlite "intent-assistant/pkg/sqlite"
)

// @title       Intent Assistant API
// @description Conversational intent resolution over a websocket, with task and diagnostics endpoints.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run wires the service and blocks until shutdown. A non-nil error has
// already been reported.
func run() error {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return err
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Intent Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Task domain
	db, err := pkgSqlite.Open(ctx, cfg.Storage.SQLitePath)
	if err != nil {
		logger.Error(ctx, "Failed to open database: ", err)
		return err
	}
	defer db.Close()

	if err := taskRepo.Migrate(ctx, db); err != nil {
		logger.Error(ctx, "Failed to migrate database: ", err)
		return err
	}
	taskUC := usecase.New(taskRepo.New(db, logger), logger)

	// 4. Intent schema
	timezone := cfg.Conversation.Timezone
	dateParser, err := datemath.NewParser(timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", timezone, err)
		timezone = "UTC"
		dateParser, _ = datemath.NewParser(timezone)
	}

	registry, err := schema.LoadFile(cfg.Schema.Path, validation.New(dateParser))
	if err != nil {
		var schemaErr *schema.SchemaError
		if errors.As(err, &schemaErr) {
			logger.Errorf(ctx, "Invalid intent schema %s: %v", cfg.Schema.Path, schemaErr)
		} else {
			logger.Error(ctx, "Failed to load intent schema: ", err)
		}
		return err
	}
	logger.Infof(ctx, "Loaded %d intents from %s", len(registry.Intents()), cfg.Schema.Path)

	// 5. LLM providers
	llm, err := newLLMManager(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return err
	}

	// 6. Context sources
	var calendar gcalendar.Calendar
	if cfg.GoogleCalendar.CredentialsPath != "" {
		client, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath)
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", calErr)
			logger.Warn(ctx, "→ Run `go run scripts/gcal-auth/main.go` to generate token.json")
		} else {
			calendar = client
			logger.Info(ctx, "Google Calendar initialized")
		}
	}

	g := gatherer.New(logger, gatherer.Config{
		HandlerTimeout: cfg.Conversation.HandlerTimeout,
		Concurrency:    cfg.Conversation.GatherConcurrency,
	})
	bound, err := sources.Register(ctx, logger, g, registry, sources.Deps{
		Tasks:         taskUC,
		Calendar:      calendar,
		CalendarID:    cfg.GoogleCalendar.CalendarID,
		LookaheadDays: cfg.GoogleCalendar.LookaheadDays,
		CategoryCache: sources.NewCategoryCache(),
		Now:           time.Now,
	})
	if err != nil {
		logger.Error(ctx, "Failed to register context sources: ", err)
		return err
	}
	logger.Infof(ctx, "Registered %d context sources", bound)

	// 7. Conversation pipeline
	retrier := retry.New(llm, registry, logger, retry.Config{Timeout: cfg.Conversation.RetryTimeout})
	orch := orchestrator.New(llm, registry, strategy.New(g), g, retrier, logger, orchestrator.Config{
		MaxHistory: cfg.Conversation.MaxHistory,
		Timezone:   timezone,
	})
	store := conversation.New(logger)

	// 8. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		Middleware:  middleware.New(logger, cfg.CORS),
		TaskUseCase: taskUC,
		Store:       store,
		Registry:    registry,
		Turns:       orch,
		WebSocket: wsDelivery.Config{
			RateLimitPerMin: cfg.Conversation.RateLimitPerMin,
			AllowedOrigins:  cfg.CORS.AllowedOrigins,
		},
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return err
	}

	// 9. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return err
	}

	logger.Info(context.Background(), "Server stopped gracefully")
	return nil
}
