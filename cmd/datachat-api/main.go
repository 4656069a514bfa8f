package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/datachat/datachat/internal/api"
	"github.com/datachat/datachat/internal/auth"
	"github.com/datachat/datachat/internal/catalog"
	"github.com/datachat/datachat/internal/compose"
	"github.com/datachat/datachat/internal/config"
	"github.com/datachat/datachat/internal/dbexec"
	"github.com/datachat/datachat/internal/intent"
	"github.com/datachat/datachat/internal/llm"
	"github.com/datachat/datachat/internal/match"
	"github.com/datachat/datachat/internal/observability"
	"github.com/datachat/datachat/internal/pipeline"
	"github.com/datachat/datachat/internal/schema"
	"github.com/datachat/datachat/internal/synth"
)

func main() {
	cfg, err := config.LoadFromEnv("datachat-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	db, err := dbexec.Open(context.Background(), dbexec.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	executor := dbexec.NewSQLExecutor(db, cfg.Pipeline.RowLimit)

	var introspector schema.Introspector = schema.NewSQLIntrospector(db)
	if cfg.Pipeline.SchemaCacheTTL > 0 {
		introspector = schema.NewCachedIntrospector(introspector, cfg.Pipeline.SchemaCacheTTL)
	}

	model, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize model client", slog.Any("error", err))
		os.Exit(1)
	}

	registry := catalog.DefaultRegistry()
	mode := intent.ModeThreeTier
	if cfg.Pipeline.Mode == config.PipelineModeTwoTier {
		mode = intent.ModeTwoTier
	}

	var checker pipeline.CompletionChecker
	if cfg.Pipeline.CompletenessCheck {
		checker = pipeline.NewModelCompletionChecker(model)
	}

	coordinator, err := pipeline.NewCoordinator(pipeline.Dependencies{
		Classifier:        intent.NewClassifier(model, mode, cfg.Pipeline.HistoryWindow),
		Matcher:           match.NewMatcher(model, registry),
		Synthesizer:       synth.NewSynthesizer(model, cfg.Pipeline.RowLimit),
		Composer:          compose.NewComposer(model, cfg.Pipeline.SampleRows),
		Executor:          executor,
		Introspector:      introspector,
		CompletionChecker: checker,
		HistoryWindow:     cfg.Pipeline.HistoryWindow,
	})
	if err != nil {
		logger.Error("failed to build pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	deps := api.Dependencies{
		Logger:       logger,
		Pipeline:     coordinator,
		Registry:     registry,
		Introspector: introspector,
		Readiness: api.CombineReadinessChecks(
			executor.HealthCheck,
			api.CheckModelConfig(cfg),
		),
		DependencyTimout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
