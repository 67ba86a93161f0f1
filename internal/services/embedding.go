package services

import (
	"context"

	openaiclient "github.com/yungbote/askroom-backend/internal/clients/openai"
	redisclient "github.com/yungbote/askroom-backend/internal/clients/redis"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

// EmbeddingService fronts the embedding gateway with an optional cache.
// Caching is sound because embeddings are treated as deterministic per input
// for a fixed model version.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

type embeddingService struct {
	log      *logger.Logger
	embedder openaiclient.Embedder
	cache    redisclient.EmbeddingCache
	model    string
}

// NewEmbeddingService wraps embedder; cache may be nil to disable caching.
func NewEmbeddingService(embedder openaiclient.Embedder, cache redisclient.EmbeddingCache, model string, log *logger.Logger) EmbeddingService {
	return &embeddingService{
		log:      log.With("service", "EmbeddingService"),
		embedder: embedder,
		cache:    cache,
		model:    model,
	}
}

func (s *embeddingService) Dimensions() int { return s.embedder.Dimensions() }

func (s *embeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.cache != nil {
		if emb, ok := s.cache.Get(ctx, s.model, text); ok && len(emb) == s.embedder.Dimensions() {
			return emb, nil
		}
	}
	emb, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, s.model, text, emb)
	}
	return emb, nil
}
