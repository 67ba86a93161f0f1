package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/askroom-backend/internal/domain"
	apperrors "github.com/yungbote/askroom-backend/internal/pkg/errors"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, question *domain.Question) (*domain.Question, error)
	ListByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) ([]*domain.Question, error)
	CountByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) (int64, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) Create(ctx context.Context, tx *gorm.DB, question *domain.Question) (*domain.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(question).Error; err != nil {
		return nil, fmt.Errorf("%w: create question: %v", apperrors.ErrPersistence, err)
	}
	return question, nil
}

func (r *questionRepo) ListByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) ([]*domain.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var questions []*domain.Question
	if err := transaction.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("%w: list questions: %v", apperrors.ErrPersistence, err)
	}
	return questions, nil
}

func (r *questionRepo) CountByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Question{}).
		Where("room_id = ?", roomID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: count questions: %v", apperrors.ErrPersistence, err)
	}
	return count, nil
}
