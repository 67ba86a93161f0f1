package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question text length bounds, counted in runes, enforced before any
// gateway call.
const (
	QuestionMinLen = 3
	QuestionMaxLen = 255
)

// Question is a persisted question/answer pair. Answer is nil when retrieval
// found no chunk above the similarity threshold at answer time; a non-nil
// answer may still state that the retrieved context was insufficient.
type Question struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`
	Room   *Room     `gorm:"constraint:OnDelete:CASCADE;foreignKey:RoomID;references:ID" json:"room,omitempty"`

	Question string  `gorm:"column:question;type:varchar(255);not null" json:"question"`
	Answer   *string `gorm:"column:answer;type:text" json:"answer"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Question) TableName() string { return "question" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
