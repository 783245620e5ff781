package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"ai-resume-be/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// CachedProvider memoizes query embeddings. Lookups go to the in-process
// cache first, then Redis when configured, then the wrapped provider.
// Document embeddings bypass the cache; ingestion stores them itself.
type CachedProvider struct {
	next   EmbeddingProvider
	local  *cache.Cache
	redis  *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

// NewCachedProvider wraps next. rdb may be nil.
func NewCachedProvider(next EmbeddingProvider, rdb *redis.Client, ttl time.Duration, log logger.ILogger) *CachedProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedProvider{
		next:   next,
		local:  cache.New(ttl, 10*time.Minute),
		redis:  rdb,
		ttl:    ttl,
		logger: log,
	}
}

func cacheKey(text string, taskType TaskType) string {
	sum := sha256.Sum256([]byte(text))
	return "embedding:" + string(taskType) + ":" + hex.EncodeToString(sum[:])
}

func (p *CachedProvider) Generate(ctx context.Context, text string, taskType TaskType) (*EmbeddingResponse, error) {
	if taskType != TaskQuery {
		return p.next.Generate(ctx, text, taskType)
	}

	key := cacheKey(text, taskType)
	if x, found := p.local.Get(key); found {
		return x.(*EmbeddingResponse), nil
	}
	if res, ok := p.fromRedis(ctx, key); ok {
		p.local.Set(key, res, cache.DefaultExpiration)
		return res, nil
	}

	res, err := p.next.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	if len(res.Embedding.Values) == 0 {
		return res, nil
	}
	p.local.Set(key, res, cache.DefaultExpiration)
	p.toRedis(ctx, key, res)
	return res, nil
}

func (p *CachedProvider) fromRedis(ctx context.Context, key string) (*EmbeddingResponse, bool) {
	if p.redis == nil {
		return nil, false
	}
	raw, err := p.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Warn("EMBEDDING", "Redis cache read failed", map[string]interface{}{"error": err})
		}
		return nil, false
	}
	var res EmbeddingResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false
	}
	return &res, true
}

func (p *CachedProvider) toRedis(ctx context.Context, key string, res *EmbeddingResponse) {
	if p.redis == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := p.redis.Set(ctx, key, raw, p.ttl).Err(); err != nil {
		p.logger.Warn("EMBEDDING", "Redis cache write failed", map[string]interface{}{"error": err})
	}
}
