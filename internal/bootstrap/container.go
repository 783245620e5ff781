package bootstrap

import (
	"context"
	"fmt"

	"ai-resume-be/internal/config"
	"ai-resume-be/internal/controller"
	"ai-resume-be/internal/pkg/logger"
	"ai-resume-be/internal/repository/contract"
	"ai-resume-be/internal/repository/implementation"
	"ai-resume-be/internal/repository/memory"
	"ai-resume-be/internal/service"
	"ai-resume-be/pkg/ai/pipeline"
	"ai-resume-be/pkg/ai/router"
	"ai-resume-be/pkg/database"
	"ai-resume-be/pkg/embedding"
	"ai-resume-be/pkg/events"
	"ai-resume-be/pkg/llm"
	"ai-resume-be/pkg/llm/cerebras"
	"ai-resume-be/pkg/llm/gemini"
	"ai-resume-be/pkg/rag"
	"ai-resume-be/pkg/rag/prompt"
	"ai-resume-be/pkg/rag/search"

	pktNats "ai-resume-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	ResumeController controller.IResumeController

	// Background services, run by main.go
	ConsumerService  service.IConsumerService
	PublisherService service.IPublisherService
	IngestService    service.IIngestService

	closers []func()
}

// Infra is the storage and embedding half of the container. The seed and
// debug commands use it without the model providers.
type Infra struct {
	Repository contract.VectorStore
	Embedder   *embedding.Service
	Gemini     *gemini.Client

	closers []func()
}

// Close releases connections in reverse order of creation.
func (i *Infra) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		i.closers[n]()
	}
}

func NewInfra(ctx context.Context, cfg *config.Config, log logger.ILogger) (*Infra, error) {
	infra := &Infra{}

	gem, err := gemini.NewClient(ctx, cfg.Keys.GoogleGemini, "")
	if err != nil {
		return nil, err
	}
	infra.Gemini = gem

	rdb := newRedis(ctx, cfg.App.RedisURL, log)
	if rdb != nil {
		infra.closers = append(infra.closers, func() { _ = rdb.Close() })
	}
	provider := embedding.NewCachedProvider(
		embedding.NewGeminiProvider(gem.Models(), cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimensions),
		rdb,
		cfg.Cache.EmbeddingTTL,
		log,
	)
	infra.Embedder = embedding.NewService(provider, cfg.Ai.EmbeddingDimensions)

	if cfg.Database.Connection == "" {
		log.Warn("BOOTSTRAP", "DB_CONNECTION_STRING not set, using the in-memory index", nil)
		infra.Repository = memory.NewExperienceIndex(cfg.Ai.EmbeddingDimensions)
		return infra, nil
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		infra.closers = append(infra.closers, func() { _ = sqlDB.Close() })
	}
	infra.Repository = implementation.NewExperienceRepository(db, cfg.Ai.EmbeddingDimensions)
	return infra, nil
}

// newRedis returns nil when no URL is configured or the server is unreachable;
// the embedding cache then runs on its in-process layer only.
func newRedis(ctx context.Context, url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unreachable, embedding cache is local only", map[string]interface{}{"error": err})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func NewContainer(ctx context.Context, cfg *config.Config, log logger.ILogger) (*Container, error) {
	infra, err := NewInfra(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	c := &Container{Logger: log, closers: []func(){infra.Close}}

	// 1. Model routing and providers
	modelRouter, err := router.New(cfg.Ai.Models(), cfg.Ai.Timeouts())
	if err != nil {
		c.Close()
		return nil, err
	}
	primary := cerebras.NewClient(cerebras.Config{
		APIKey:            cfg.Keys.Cerebras,
		BaseURL:           cfg.Ai.CerebrasBaseURL,
		RequestsPerSecond: cfg.Ai.RequestsPerSecond,
	})
	orchestrator := llm.NewOrchestrator(modelRouter, primary, infra.Gemini, log, llm.OrchestratorConfig{
		MaxAttempts: cfg.Ai.MaxRetries,
		BaseBackoff: cfg.Ai.BaseBackoff,
	})

	// 2. Retrieval and pipeline
	conv := cfg.Conversation
	searcher := search.NewOrchestrator(infra.Embedder, infra.Repository, rag.DiversityConfig{
		PenaltyPerShowing: conv.PenaltyPerShowing,
		MaxPenalty:        conv.MaxPenalty,
	}, log)
	conversation := pipeline.NewConversationPipeline(orchestrator, searcher, pipeline.Config{
		Chat:           prompt.ChatThresholds{SuggestWrapUp: conv.SuggestWrapUpTurns, Max: conv.MaxTurns},
		RetrievalLimit: conv.RetrievalLimit,
		CandidateLimit: conv.CandidateLimit,
		HistoryWindow:  conv.HistoryWindow,
		SummaryWindow:  conv.SummaryWindow,
	}, log)

	// 3. Event buses
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var sink events.Sink
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, log)
		if err != nil {
			log.Warn("BOOTSTRAP", "Failed to connect to NATS, analytics events disabled", map[string]interface{}{"error": err})
		} else {
			sink = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 4. Services
	c.IngestService = service.NewIngestService(infra.Repository, infra.Embedder, cfg.App.DataDir, cfg.App.IngestConcurrency, log)
	c.PublisherService = service.NewPublisherService(service.ReindexTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, service.ReindexTopic, c.IngestService, log)
	resumeService := service.NewResumeService(conversation, events.NewPublisher(sink, log))

	// 5. Controllers
	c.ResumeController = controller.NewResumeController(resumeService)

	return c, nil
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	for n := len(c.closers) - 1; n >= 0; n-- {
		c.closers[n]()
	}
}
