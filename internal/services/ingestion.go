package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/askroom-backend/internal/clients/gcp"
	"github.com/yungbote/askroom-backend/internal/data/repos"
	apperrors "github.com/yungbote/askroom-backend/internal/pkg/errors"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

// IngestionService runs one uploaded audio unit through transcription,
// embedding, and chunk persistence. Stages are strictly sequential and
// nothing is persisted until every stage has succeeded.
type IngestionService interface {
	IngestAudio(ctx context.Context, roomID uuid.UUID, audio []byte, mimeType string) (uuid.UUID, error)
}

type ingestionService struct {
	db          *gorm.DB
	log         *logger.Logger
	rooms       repos.RoomRepo
	chunks      repos.AudioChunkRepo
	transcriber gcp.Transcriber
	embeddings  EmbeddingService
	archive     gcp.AudioArchive
}

func NewIngestionService(
	db *gorm.DB,
	log *logger.Logger,
	rooms repos.RoomRepo,
	chunks repos.AudioChunkRepo,
	transcriber gcp.Transcriber,
	embeddings EmbeddingService,
	archive gcp.AudioArchive,
) IngestionService {
	return &ingestionService{
		db:          db,
		log:         log.With("service", "IngestionService"),
		rooms:       rooms,
		chunks:      chunks,
		transcriber: transcriber,
		embeddings:  embeddings,
		archive:     archive,
	}
}

func (s *ingestionService) IngestAudio(ctx context.Context, roomID uuid.UUID, audio []byte, mimeType string) (uuid.UUID, error) {
	if len(audio) == 0 {
		return uuid.Nil, fmt.Errorf("%w: audio is required", apperrors.ErrInvalidArgument)
	}
	if _, err := s.rooms.GetByID(ctx, nil, roomID); err != nil {
		return uuid.Nil, err
	}

	if s.archive != nil {
		key := fmt.Sprintf("rooms/%s/audio/%s", roomID, uuid.New())
		if err := s.archive.ArchiveAudio(ctx, key, audio, mimeType); err != nil {
			s.log.Warn("Audio archive failed, continuing ingestion", "room_id", roomID, "error", err)
		}
	}

	transcript, err := s.transcriber.TranscribeAudio(ctx, audio, mimeType)
	if err != nil {
		return uuid.Nil, err
	}

	embedding, err := s.embeddings.Embed(ctx, transcript)
	if err != nil {
		return uuid.Nil, err
	}
	if want := s.embeddings.Dimensions(); len(embedding) != want {
		return uuid.Nil, fmt.Errorf("%w: expected %d dimensions, got %d", apperrors.ErrEmbedding, want, len(embedding))
	}

	chunk, err := s.chunks.Create(ctx, nil, roomID, transcript, embedding)
	if err != nil {
		return uuid.Nil, err
	}

	s.log.Info("Audio ingested",
		"room_id", roomID,
		"chunk_id", chunk.ID,
		"transcript_len", len(transcript),
	)
	return chunk.ID, nil
}
