package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/askroom-backend/internal/platform/envutil"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

// EmbeddingCache memoizes embedding vectors keyed by model + input text.
// Cache faults degrade to a miss; they never fail the calling pipeline.
type EmbeddingCache interface {
	Get(ctx context.Context, model, text string) ([]float32, bool)
	Set(ctx context.Context, model, text string, embedding []float32)
	Close() error
}

type embeddingCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewEmbeddingCache returns (nil, nil) when REDIS_ADDR is not set, in which
// case caching is disabled.
func NewEmbeddingCache(log *logger.Logger) (EmbeddingCache, error) {
	addr := envutil.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := time.Duration(envutil.GetEnvAsInt("EMBED_CACHE_TTL_SECONDS", 86400, log)) * time.Second
	return &embeddingCache{
		log: log.With("service", "RedisEmbeddingCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *embeddingCache) Get(ctx context.Context, model, text string) ([]float32, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(model, text)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Embedding cache read failed", "error", err)
		}
		return nil, false
	}
	var emb []float32
	if err := json.Unmarshal(raw, &emb); err != nil {
		c.log.Warn("Embedding cache entry undecodable", "error", err)
		return nil, false
	}
	return emb, true
}

func (c *embeddingCache) Set(ctx context.Context, model, text string, embedding []float32) {
	raw, err := json.Marshal(embedding)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(model, text), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Embedding cache write failed", "error", err)
	}
}

func (c *embeddingCache) Close() error {
	return c.rdb.Close()
}

func cacheKey(model, text string) string {
	h := sha256.Sum256([]byte(model + "\x00" + text))
	return "embed:" + hex.EncodeToString(h[:])
}
