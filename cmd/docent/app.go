package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/helmsley-ai/docent/internal/config"
	"github.com/helmsley-ai/docent/internal/db"
	dbRedis "github.com/helmsley-ai/docent/internal/db/redis"
	"github.com/helmsley-ai/docent/internal/extract"
	"github.com/helmsley-ai/docent/internal/index"
	"github.com/helmsley-ai/docent/internal/logger"
	openaiTransport "github.com/helmsley-ai/docent/internal/transport/openai"
	"github.com/helmsley-ai/docent/internal/usecase/docstore"
	"github.com/helmsley-ai/docent/internal/usecase/execute"
	healthuc "github.com/helmsley-ai/docent/internal/usecase/health"
	"github.com/helmsley-ai/docent/internal/usecase/pipeline"
	planuc "github.com/helmsley-ai/docent/internal/usecase/plan"
	"github.com/helmsley-ai/docent/internal/usecase/retrieve"
)

// app is the composition root shared by all subcommands.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	dbStore   db.Store
	store     *docstore.Service
	extractor *extract.Text
	registry  *execute.Registry
	pipeline  *pipeline.Service
	health    *healthuc.Service
}

// buildApp assembles the full service graph from configuration.
func buildApp(ctx context.Context) (*app, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: log}

	var idx docstore.Index
	switch cfg.Database.Driver {
	case "memory":
		idx = index.NewMemory()
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis not ready: %w", err)
		}

		redisIdx := index.NewRedis(store, cfg.Storage.KeyPrefix)
		if err := redisIdx.Load(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("load persisted index: %w", err)
		}
		a.dbStore = store
		idx = redisIdx
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.EmbeddingModel,
		Dimensions: cfg.LLM.EmbeddingDimensions,
		Timeout:    time.Duration(cfg.LLM.EmbeddingTimeoutSec) * time.Second,
		Logger:     log,
	})
	completer := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.CompletionModel,
		Timeout: time.Duration(cfg.LLM.CompletionTimeoutSec) * time.Second,
		Logger:  log,
	})

	splitter := docstore.NewSplitter(cfg.Chunking.Size, cfg.Chunking.Overlap)
	a.store = docstore.New(idx, embedder, splitter,
		cfg.Retrieval.TopK, cfg.Retrieval.Threshold(cfg.Database.Driver))
	a.extractor = extract.NewText()
	a.registry = execute.NewRegistry()
	a.pipeline = pipeline.New(
		planuc.New(completer, log),
		retrieve.New(a.store, completer),
		execute.New(completer, a.registry),
		log,
	)

	var pinger healthuc.StorePinger
	if a.dbStore != nil {
		pinger = a.dbStore
	}
	a.health = healthuc.New(pinger, embedder)

	return a, nil
}

// close releases held resources. Safe on a partially built app.
func (a *app) close() {
	if a.dbStore != nil {
		a.dbStore.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
