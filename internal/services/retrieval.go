package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	openaiclient "github.com/yungbote/askroom-backend/internal/clients/openai"
	"github.com/yungbote/askroom-backend/internal/data/repos"
	"github.com/yungbote/askroom-backend/internal/domain"
	apperrors "github.com/yungbote/askroom-backend/internal/pkg/errors"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

// Retrieval defaults. Env overrides exist but must preserve these values
// when unset.
const (
	DefaultSimilarityThreshold = 0.7
	DefaultTopK                = 3
)

// AskResult is what the transport layer needs: the persisted record identity
// and the answer, nil when retrieval found no chunk above the threshold.
type AskResult struct {
	QuestionID uuid.UUID
	Answer     *string
}

type RetrievalService interface {
	AskQuestion(ctx context.Context, roomID uuid.UUID, question string) (*AskResult, error)
}

type retrievalService struct {
	db         *gorm.DB
	log        *logger.Logger
	rooms      repos.RoomRepo
	chunks     repos.AudioChunkRepo
	questions  repos.QuestionRepo
	embeddings EmbeddingService
	generator  openaiclient.AnswerGenerator
	threshold  float64
	topK       int
}

func NewRetrievalService(
	db *gorm.DB,
	log *logger.Logger,
	rooms repos.RoomRepo,
	chunks repos.AudioChunkRepo,
	questions repos.QuestionRepo,
	embeddings EmbeddingService,
	generator openaiclient.AnswerGenerator,
	threshold float64,
	topK int,
) RetrievalService {
	return &retrievalService{
		db:         db,
		log:        log.With("service", "RetrievalService"),
		rooms:      rooms,
		chunks:     chunks,
		questions:  questions,
		embeddings: embeddings,
		generator:  generator,
		threshold:  threshold,
		topK:       topK,
	}
}

func (s *retrievalService) AskQuestion(ctx context.Context, roomID uuid.UUID, question string) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if n := utf8.RuneCountInString(question); n < domain.QuestionMinLen || n > domain.QuestionMaxLen {
		return nil, fmt.Errorf("%w: question must be between %d and %d characters",
			apperrors.ErrInvalidArgument, domain.QuestionMinLen, domain.QuestionMaxLen)
	}
	if _, err := s.rooms.GetByID(ctx, nil, roomID); err != nil {
		return nil, err
	}

	queryEmbedding, err := s.embeddings.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	hits, err := s.chunks.SearchSimilar(ctx, nil, roomID, queryEmbedding, s.threshold, s.topK)
	if err != nil {
		return nil, err
	}

	// The answer stays nil when nothing cleared the threshold; synthesis is
	// skipped entirely. A non-nil answer may itself state that the context
	// was insufficient -- that judgment belongs to the model, not to us.
	var answer *string
	if len(hits) > 0 {
		passages := make([]string, 0, len(hits))
		for _, hit := range hits {
			passages = append(passages, hit.Chunk.Transcript)
		}
		text, err := s.generator.GenerateAnswer(ctx, question, passages)
		if err != nil {
			return nil, err
		}
		answer = &text
	}

	// Persist exactly once, after the answer is known. A synthesis failure
	// above leaves no row behind.
	record, err := s.questions.Create(ctx, nil, &domain.Question{
		RoomID:   roomID,
		Question: question,
		Answer:   answer,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Question answered",
		"room_id", roomID,
		"question_id", record.ID,
		"context_chunks", len(hits),
		"answered", answer != nil,
	)
	return &AskResult{QuestionID: record.ID, Answer: answer}, nil
}
