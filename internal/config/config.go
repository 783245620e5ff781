package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Keys         APIKeys
	Ai           AIConfig
	Conversation ConversationConfig
	Cache        CacheConfig
}

type AppConfig struct {
	Port               string `envconfig:"APP_PORT" default:"3000"`
	Environment        string `envconfig:"GO_ENV" default:"development"`
	LogFilePath        string `envconfig:"LOG_FILE_PATH" default:"app.log"`
	CorsAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	NatsURL            string `envconfig:"NATS_URL" default:""`
	RedisURL           string `envconfig:"REDIS_URL" default:""`
	StaticDir          string `envconfig:"STATIC_DIR" default:"./frontend"`
	DataDir            string `envconfig:"DATA_DIR" default:"./data"`
	SyncOnStart        bool   `envconfig:"SYNC_ON_START" default:"false"`
	IngestConcurrency  int    `envconfig:"INGEST_CONCURRENCY" default:"4"`
	OtelEnabled        bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OtelEndpoint       string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4318"`
}

type DatabaseConfig struct {
	Connection string `envconfig:"DB_CONNECTION_STRING" default:""`
}

type APIKeys struct {
	Cerebras     string `envconfig:"CEREBRAS_API_KEY"`
	GoogleGemini string `envconfig:"GEMINI_API_KEY"`
}

type AIConfig struct {
	CerebrasBaseURL string `envconfig:"CEREBRAS_BASE_URL" default:"https://api.cerebras.ai/v1"`

	SmallPrimary   string `envconfig:"MODEL_SMALL_PRIMARY" default:"llama3.1-8b"`
	SmallFallback  string `envconfig:"MODEL_SMALL_FALLBACK" default:"gemini-2.5-flash-lite"`
	MediumPrimary  string `envconfig:"MODEL_MEDIUM_PRIMARY" default:"qwen-3-32b"`
	MediumFallback string `envconfig:"MODEL_MEDIUM_FALLBACK" default:"gemini-2.5-flash"`
	LargePrimary   string `envconfig:"MODEL_LARGE_PRIMARY" default:"gpt-oss-120b"`
	LargeFallback  string `envconfig:"MODEL_LARGE_FALLBACK" default:"gemini-2.5-pro"`

	SmallTimeout  time.Duration `envconfig:"TIMEOUT_SMALL" default:"10s"`
	MediumTimeout time.Duration `envconfig:"TIMEOUT_MEDIUM" default:"15s"`
	LargeTimeout  time.Duration `envconfig:"TIMEOUT_LARGE" default:"30s"`

	MaxRetries  int           `envconfig:"LLM_MAX_RETRIES" default:"3"`
	BaseBackoff time.Duration `envconfig:"LLM_BASE_BACKOFF" default:"1s"`

	// Zero disables client-side rate limiting.
	RequestsPerSecond float64 `envconfig:"LLM_REQUESTS_PER_SECOND" default:"0"`

	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"gemini-embedding-001"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"768"`
}

type ConversationConfig struct {
	SuggestWrapUpTurns int     `envconfig:"CHAT_SUGGEST_TURNS" default:"2"`
	MaxTurns           int     `envconfig:"CHAT_MAX_TURNS" default:"5"`
	RetrievalLimit     int     `envconfig:"RAG_RETRIEVAL_LIMIT" default:"5"`
	CandidateLimit     int     `envconfig:"RAG_CANDIDATE_LIMIT" default:"10"`
	PenaltyPerShowing  float64 `envconfig:"RAG_PENALTY_PER_SHOWING" default:"0.4"`
	MaxPenalty         float64 `envconfig:"RAG_MAX_PENALTY" default:"0.9"`
	HistoryWindow      int     `envconfig:"CHAT_HISTORY_WINDOW" default:"6"`
	SummaryWindow      int     `envconfig:"BLOCK_SUMMARY_WINDOW" default:"5"`
}

type CacheConfig struct {
	EmbeddingTTL time.Duration `envconfig:"EMBEDDING_CACHE_TTL" default:"1h"`
}

// Models returns the tier table as {primary, fallback} pairs keyed by tier name.
func (c AIConfig) Models() map[string][2]string {
	return map[string][2]string{
		"SMALL":  {c.SmallPrimary, c.SmallFallback},
		"MEDIUM": {c.MediumPrimary, c.MediumFallback},
		"LARGE":  {c.LargePrimary, c.LargeFallback},
	}
}

func (c AIConfig) Timeouts() map[string]time.Duration {
	return map[string]time.Duration{
		"SMALL":  c.SmallTimeout,
		"MEDIUM": c.MediumTimeout,
		"LARGE":  c.LargeTimeout,
	}
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	var cfg Config
	for prefix, target := range map[string]interface{}{
		"app":          &cfg.App,
		"database":     &cfg.Database,
		"keys":         &cfg.Keys,
		"ai":           &cfg.Ai,
		"conversation": &cfg.Conversation,
		"cache":        &cfg.Cache,
	} {
		if err := envconfig.Process("", target); err != nil {
			return nil, fmt.Errorf("load %s config: %w", prefix, err)
		}
	}
	return &cfg, nil
}

// Validate reports configuration that would only fail later, at first use.
func (c *Config) Validate() error {
	var missing []string
	if c.Keys.Cerebras == "" {
		missing = append(missing, "CEREBRAS_API_KEY")
	}
	if c.Keys.GoogleGemini == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	for tier, pair := range c.Ai.Models() {
		if pair[0] == "" || pair[1] == "" {
			missing = append(missing, "MODEL_"+tier+"_PRIMARY/FALLBACK")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Ai.MaxRetries < 1 {
		return fmt.Errorf("LLM_MAX_RETRIES must be at least 1, got %d", c.Ai.MaxRetries)
	}
	if c.Ai.EmbeddingDimensions <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must be positive, got %d", c.Ai.EmbeddingDimensions)
	}
	if c.Conversation.SuggestWrapUpTurns > c.Conversation.MaxTurns {
		return fmt.Errorf("CHAT_SUGGEST_TURNS (%d) exceeds CHAT_MAX_TURNS (%d)",
			c.Conversation.SuggestWrapUpTurns, c.Conversation.MaxTurns)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
