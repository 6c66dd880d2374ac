package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/iajur/internal/config"
	"github.com/kailas-cloud/iajur/internal/db"
	"github.com/kailas-cloud/iajur/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/iajur/internal/db/redis"
	"github.com/kailas-cloud/iajur/internal/domain"
	"github.com/kailas-cloud/iajur/internal/domain/glossary"
	"github.com/kailas-cloud/iajur/internal/domain/session"
	"github.com/kailas-cloud/iajur/internal/metrics"
	"github.com/kailas-cloud/iajur/internal/repository/embcache"
	searchrepo "github.com/kailas-cloud/iajur/internal/repository/search"
	"github.com/kailas-cloud/iajur/internal/transport/gemini"
	openaiTransport "github.com/kailas-cloud/iajur/internal/transport/openai"
	"github.com/kailas-cloud/iajur/internal/usecase/aggregate"
	askuc "github.com/kailas-cloud/iajur/internal/usecase/ask"
	"github.com/kailas-cloud/iajur/internal/usecase/contextinject"
	embeddinguc "github.com/kailas-cloud/iajur/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/iajur/internal/usecase/health"
	"github.com/kailas-cloud/iajur/internal/usecase/ingest"
	"github.com/kailas-cloud/iajur/internal/usecase/synthesize"
)

// embedder is what the composition root needs from an embedding chain.
type embedder interface {
	domain.Embedder
	domain.HealthChecker
}

// generator is what the composition root needs from a generation transport.
type generator interface {
	domain.Generator
	domain.HealthChecker
}

// app holds the shared dependencies of the serve, ask and ingest commands.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	store  db.VectorStore
	genai  *genai.Client
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	metrics.Register()

	store, err := openStore(cfg.Search)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.Search.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("vector store not ready: %w", err)
	}
	logger.Info("Connected to vector store",
		zap.String("backend", cfg.Search.Backend),
		zap.String("index", cfg.Search.Index),
	)

	a := &app{cfg: cfg, logger: logger, store: store}
	if cfg.Embedding.Provider == config.ProviderGemini || cfg.Generation.Provider == config.ProviderGemini {
		key, url := cfg.Embedding.APIKey, cfg.Embedding.BaseURL
		if cfg.Embedding.Provider != config.ProviderGemini {
			key, url = cfg.Generation.APIKey, cfg.Generation.BaseURL
		}
		client, err := gemini.NewClient(ctx, key, url)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		a.genai = client
	}
	return a, nil
}

func (a *app) Close() {
	a.store.Close()
}

func openStore(cfg config.SearchConfig) (db.VectorStore, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		return s, nil
	case config.BackendPostgres:
		s, err := postgres.NewStore(postgres.Config{DSN: cfg.DSN})
		if err != nil {
			return nil, fmt.Errorf("create postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown search backend %q", cfg.Backend)
	}
}

// queryEmbedder builds the cached, instrumented embedder used for search queries.
func (a *app) queryEmbedder() embedder {
	cfg := a.cfg.Embedding
	var e embedder = a.providerEmbedder(gemini.TaskRetrievalQuery)

	if kv, ok := a.store.(db.KVStore); ok && cfg.CacheTTL > 0 {
		namespace := cfg.Provider + ":" + cfg.Model + ":query"
		e = embcache.New(e, kv, namespace, cfg.CacheTTL, metrics.EmbeddingCacheTotal, a.logger)
		a.logger.Info("Embedding cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	}

	e = embeddinguc.NewInstrumentedEmbedder(e, cfg.Provider, cfg.Model, a.logger)
	if cfg.QueryInstruction != "" {
		return domain.NewPrefixEmbedder(e, cfg.QueryInstruction)
	}
	return e
}

// documentEmbedder builds the uncached embedder used by ingestion.
func (a *app) documentEmbedder() domain.Embedder {
	cfg := a.cfg.Embedding
	e := embeddinguc.NewInstrumentedEmbedder(a.providerEmbedder(gemini.TaskRetrievalDocument), cfg.Provider, cfg.Model, a.logger)
	if cfg.DocumentInstruction != "" {
		return domain.NewPrefixEmbedder(e, cfg.DocumentInstruction)
	}
	return e
}

func (a *app) providerEmbedder(task string) embedder {
	cfg := a.cfg.Embedding
	if cfg.Provider == config.ProviderGemini {
		return gemini.NewEmbedder(a.genai, gemini.EmbedderConfig{
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			TaskType:   task,
		})
	}
	return openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     a.logger,
	})
}

func (a *app) generator() generator {
	cfg := a.cfg.Generation
	if cfg.Provider == config.ProviderGemini {
		return gemini.NewGenerator(a.genai, gemini.GeneratorConfig{
			Model:           cfg.Model,
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxTokens,
			Logger:          a.logger,
		})
	}
	return openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Provider:    cfg.Provider,
		Logger:      a.logger,
	})
}

// services is the wired answer pipeline.
type services struct {
	resolver *glossary.Resolver
	ask      *askuc.Service
	health   *healthuc.Service
}

func (a *app) services() services {
	queries := a.queryEmbedder()
	gen := a.generator()

	repo := searchrepo.New(queries, a.store, searchrepo.Options{
		Index:        a.cfg.Search.Index,
		MinScore:     a.cfg.Search.MinScore,
		PreviewChars: a.cfg.Search.PreviewChars,
	})
	agg := aggregate.New(repo, aggregate.Options{
		TopK:        a.cfg.Search.TopK,
		MaxResults:  a.cfg.Search.MaxResults,
		Parallelism: a.cfg.Search.Parallelism,
	})
	synth := synthesize.New(gen, synthesize.WithTimeout(a.cfg.Generation.Timeout))

	mem := session.New(a.cfg.Memory.Capacity)
	inj := contextinject.New(mem, contextinject.Options{
		Cooldown:       a.cfg.Memory.Cooldown,
		HistoryWindow:  a.cfg.Memory.HistoryWindow,
		FallbackWindow: a.cfg.Memory.FallbackWindow,
		AnswerPreview:  a.cfg.Memory.AnswerPreview,
	})

	resolver := glossary.Default()
	return services{
		resolver: resolver,
		ask:      askuc.New(resolver, inj, agg, synth, mem),
		health:   healthuc.New(a.store, queries, gen),
	}
}

func (a *app) ingester() *ingest.Service {
	return ingest.New(a.store, a.documentEmbedder(), ingest.Options{
		Index:      a.cfg.Search.Index,
		Dimensions: a.cfg.Embedding.Dimensions,
	})
}
