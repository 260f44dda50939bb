package main

import (
	"context"
	"fmt"

	"ritcompass/internal/knowledge"
	"ritcompass/internal/llm"
	"ritcompass/internal/metrics"
	"ritcompass/internal/repository"
	"ritcompass/internal/service"
	"ritcompass/pkg/config"
	"ritcompass/pkg/logger"
	"ritcompass/pkg/postgres"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// application is the wired pipeline shared by serve and ask.
type application struct {
	cfg      *config.Config
	logger   *zap.Logger
	pipeline *service.PipelineService
	provider llm.Provider
}

func (a *application) Close() {
	if err := a.provider.Close(); err != nil {
		a.logger.Warn("Failed to close LLM provider", zap.Error(err))
	}
	logger.Sync()
}

// bootstrap loads configuration, the knowledge base and the model provider
// and assembles the pipeline. Metrics are registered on reg.
func bootstrap(ctx context.Context, reg prometheus.Registerer) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger := logger.Get()

	kb, err := loadKnowledge(ctx, cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	appLogger.Info("Knowledge base loaded",
		zap.String("source", cfg.Knowledge.Source),
		zap.Strings("categories", kb.Keys()),
	)

	provider, err := llm.NewProvider(ctx, cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	models := llm.NewModels(provider, &cfg.LLM)

	classifier := service.NewClassifierService(kb, models.Strict, appLogger)
	prompts := service.NewPromptBuilder(cfg.LLM.AssistantName, cfg.LLM.Institution)

	pipeline, err := service.NewPipelineService(
		kb,
		classifier,
		prompts,
		models,
		service.PipelineConfig{CallTimeout: cfg.LLM.CallTimeout},
		metrics.New(reg),
		appLogger,
	)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	return &application{
		cfg:      cfg,
		logger:   appLogger,
		pipeline: pipeline,
		provider: provider,
	}, nil
}

func loadKnowledge(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) (*knowledge.Base, error) {
	switch cfg.Knowledge.Source {
	case "file", "":
		if cfg.Knowledge.Path == "" {
			return knowledge.LoadDefault()
		}
		return knowledge.LoadFile(cfg.Knowledge.Path)
	case "postgres":
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			return nil, err
		}
		// the base is immutable once loaded, so the pool is not needed afterwards
		defer db.Close()
		return repository.NewKnowledgeRepository(db, appLogger).LoadBase(ctx)
	default:
		return nil, fmt.Errorf("unknown knowledge source %q", cfg.Knowledge.Source)
	}
}
