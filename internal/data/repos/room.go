package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/askroom-backend/internal/domain"
	apperrors "github.com/yungbote/askroom-backend/internal/pkg/errors"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

// RoomSummary is the listing shape: room metadata plus the number of
// questions asked in the room.
type RoomSummary struct {
	Room          domain.Room
	QuestionCount int64
}

type RoomRepo interface {
	Create(ctx context.Context, tx *gorm.DB, room *domain.Room) (*domain.Room, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Room, error)
	List(ctx context.Context, tx *gorm.DB) ([]RoomSummary, error)
}

type roomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoomRepo(db *gorm.DB, baseLog *logger.Logger) RoomRepo {
	return &roomRepo{db: db, log: baseLog.With("repo", "RoomRepo")}
}

func (r *roomRepo) Create(ctx context.Context, tx *gorm.DB, room *domain.Room) (*domain.Room, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(room).Error; err != nil {
		return nil, fmt.Errorf("%w: create room: %v", apperrors.ErrPersistence, err)
	}
	return room, nil
}

func (r *roomRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Room, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var room domain.Room
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get room: %v", apperrors.ErrPersistence, err)
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context, tx *gorm.DB) ([]RoomSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rooms []domain.Room
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("%w: list rooms: %v", apperrors.ErrPersistence, err)
	}

	type countRow struct {
		RoomID uuid.UUID
		Count  int64
	}
	var counts []countRow
	if err := transaction.WithContext(ctx).
		Model(&domain.Question{}).
		Select("room_id, COUNT(*) AS count").
		Group("room_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("%w: count questions: %v", apperrors.ErrPersistence, err)
	}
	byRoom := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byRoom[c.RoomID] = c.Count
	}

	out := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, RoomSummary{Room: room, QuestionCount: byRoom[room.ID]})
	}
	return out, nil
}
