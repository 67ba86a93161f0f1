package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/askroom-backend/internal/data/repos"
	"github.com/yungbote/askroom-backend/internal/domain"
	apperrors "github.com/yungbote/askroom-backend/internal/pkg/errors"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

type RoomService interface {
	CreateRoom(ctx context.Context, name string, description string) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]repos.RoomSummary, error)
	ListRoomQuestions(ctx context.Context, roomID uuid.UUID) ([]*domain.Question, error)
	ListRoomChunks(ctx context.Context, roomID uuid.UUID) ([]*domain.AudioChunk, error)
}

type roomService struct {
	db        *gorm.DB
	log       *logger.Logger
	rooms     repos.RoomRepo
	questions repos.QuestionRepo
	chunks    repos.AudioChunkRepo
}

func NewRoomService(db *gorm.DB, log *logger.Logger, rooms repos.RoomRepo, questions repos.QuestionRepo, chunks repos.AudioChunkRepo) RoomService {
	return &roomService{
		db:        db,
		log:       log.With("service", "RoomService"),
		rooms:     rooms,
		questions: questions,
		chunks:    chunks,
	}
}

func (s *roomService) CreateRoom(ctx context.Context, name string, description string) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < domain.RoomNameMinLen || n > domain.RoomNameMaxLen {
		return nil, fmt.Errorf("%w: room name must be between %d and %d characters",
			apperrors.ErrInvalidArgument, domain.RoomNameMinLen, domain.RoomNameMaxLen)
	}

	room := &domain.Room{Name: name}
	if desc := strings.TrimSpace(description); desc != "" {
		room.Description = &desc
	}
	return s.rooms.Create(ctx, nil, room)
}

func (s *roomService) ListRooms(ctx context.Context) ([]repos.RoomSummary, error) {
	return s.rooms.List(ctx, nil)
}

func (s *roomService) ListRoomQuestions(ctx context.Context, roomID uuid.UUID) ([]*domain.Question, error) {
	if _, err := s.rooms.GetByID(ctx, nil, roomID); err != nil {
		return nil, err
	}
	return s.questions.ListByRoom(ctx, nil, roomID)
}

func (s *roomService) ListRoomChunks(ctx context.Context, roomID uuid.UUID) ([]*domain.AudioChunk, error) {
	if _, err := s.rooms.GetByID(ctx, nil, roomID); err != nil {
		return nil, err
	}
	return s.chunks.ListByRoom(ctx, nil, roomID)
}
