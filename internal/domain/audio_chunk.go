package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AudioChunk is one transcribed, embedded unit of audio scoped to a room.
// Rows are append-only: created once per successful ingestion, never updated,
// deleted only by cascading room deletion.
type AudioChunk struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`
	Room   *Room     `gorm:"constraint:OnDelete:CASCADE;foreignKey:RoomID;references:ID" json:"room,omitempty"`

	Transcript string `gorm:"column:transcript;type:text;not null" json:"transcript"`
	// Embedding is a JSON array of float32 with fixed dimensionality across
	// the whole system. It never leaves the data layer.
	Embedding datatypes.JSON `gorm:"type:jsonb;column:embedding;not null" json:"-"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (AudioChunk) TableName() string { return "audio_chunk" }

func (c *AudioChunk) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
