package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"design-tutor/api/internal/config"
	"design-tutor/api/internal/llm"
	"design-tutor/api/internal/llm/gemini"
	"design-tutor/api/internal/llm/proxy"
	"design-tutor/api/internal/logger"
	"design-tutor/api/internal/store"
	"design-tutor/api/internal/tutor"
)

// app holds everything the subcommands share.
type app struct {
	cfg  *config.Config
	log  *zap.Logger
	svc  *tutor.Service
	repo *store.TutorialRepo
	db   *sql.DB
}

func newApp(ctx context.Context, withHistory bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	engines := &llm.Engines{
		Proxy: proxy.New(cfg.ProxyURL, cfg.ProxyKey, cfg.Model),
	}
	if cfg.GeminiAPIKey != "" {
		engines.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	engine, err := engines.GetEngine(cfg.Provider)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	opts := tutor.Options{
		ToolName:      cfg.ToolName,
		MaxImageBytes: cfg.MaxUploadBytes,
		Timeout:       cfg.LLMTimeout,
		MaxTokens:     cfg.MaxTokens,
	}

	if withHistory && cfg.DatabaseURL != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repo := store.NewTutorialRepo(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("tutorial history enabled", zap.String("db", store.SafeDSNSummary(cfg.DatabaseURL)))
		a.db, a.repo = db, repo
		opts.Recorder = repo
	}

	a.svc = tutor.NewService(engine, log, opts)
	log.Info("engine selected",
		zap.String("engine", engine.Name()),
		zap.String("model", engine.GetModel()))
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.log.Sync()
}
