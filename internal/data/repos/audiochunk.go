package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/askroom-backend/internal/domain"
	apperrors "github.com/yungbote/askroom-backend/internal/pkg/errors"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

// ScoredChunk pairs a chunk with its cosine similarity to a query embedding.
type ScoredChunk struct {
	Chunk *domain.AudioChunk
	Score float64
}

// AudioChunkRepo is the sole authority for chunk persistence and vector
// similarity. Embedding values never leave this package.
type AudioChunkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, transcript string, embedding []float32) (*domain.AudioChunk, error)
	// SearchSimilar scans the room's chunks, keeps those with cosine
	// similarity strictly greater than threshold, and returns at most topK
	// ordered by descending score. Ties keep insertion order, approximated
	// by created_at: chunks written within the same timestamp tick fall
	// back to id order. Finding nothing is not an error.
	SearchSimilar(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, queryEmbedding []float32, threshold float64, topK int) ([]ScoredChunk, error)
	ListByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) ([]*domain.AudioChunk, error)
	CountByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) (int64, error)
}

type audioChunkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAudioChunkRepo(db *gorm.DB, baseLog *logger.Logger) AudioChunkRepo {
	return &audioChunkRepo{db: db, log: baseLog.With("repo", "AudioChunkRepo")}
}

func (r *audioChunkRepo) Create(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, transcript string, embedding []float32) (*domain.AudioChunk, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	raw, err := json.Marshal(embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: encode embedding: %v", apperrors.ErrPersistence, err)
	}
	chunk := &domain.AudioChunk{
		RoomID:     roomID,
		Transcript: transcript,
		Embedding:  datatypes.JSON(raw),
	}
	if err := transaction.WithContext(ctx).Create(chunk).Error; err != nil {
		return nil, fmt.Errorf("%w: create audio chunk: %v", apperrors.ErrPersistence, err)
	}
	return chunk, nil
}

func (r *audioChunkRepo) SearchSimilar(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, queryEmbedding []float32, threshold float64, topK int) ([]ScoredChunk, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if topK <= 0 || len(queryEmbedding) == 0 {
		return []ScoredChunk{}, nil
	}

	// Exact full scan over the room's chunks. A single room stays small
	// enough that an ANN index would not change the observable ordering.
	var chunks []*domain.AudioChunk
	if err := transaction.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("%w: load audio chunks: %v", apperrors.ErrPersistence, err)
	}

	scored := make([]ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		emb, err := decodeEmbedding(chunk.Embedding)
		if err != nil {
			r.log.Warn("Skipping chunk with undecodable embedding", "chunk_id", chunk.ID, "error", err)
			continue
		}
		score := cosineSimilarity(queryEmbedding, emb)
		if score > threshold {
			scored = append(scored, ScoredChunk{Chunk: chunk, Score: score})
		}
	}

	// Stable so equal scores keep insertion order.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func (r *audioChunkRepo) ListByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) ([]*domain.AudioChunk, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var chunks []*domain.AudioChunk
	if err := transaction.WithContext(ctx).
		Select("id", "room_id", "transcript", "created_at").
		Where("room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("%w: list audio chunks: %v", apperrors.ErrPersistence, err)
	}
	return chunks, nil
}

func (r *audioChunkRepo) CountByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.AudioChunk{}).
		Where("room_id = ?", roomID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: count audio chunks: %v", apperrors.ErrPersistence, err)
	}
	return count, nil
}

func decodeEmbedding(raw datatypes.JSON) ([]float32, error) {
	var emb []float32
	if err := json.Unmarshal(raw, &emb); err != nil {
		return nil, err
	}
	return emb, nil
}
