package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room name length bounds, counted in runes, enforced before persistence.
const (
	RoomNameMinLen = 3
	RoomNameMaxLen = 150
)

type Room struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(150);not null" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Room) TableName() string { return "room" }

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
