package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/askroom-backend/internal/domain"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a fresh in-memory sqlite database migrated with the full schema.
// Each call is an isolated database, so tests never share state.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}

	// Serialize access through one connection so concurrent test writers do
	// not trip sqlite's lock handling.
	sqlDB, err := gdb.DB()
	if err != nil {
		tb.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := gdb.AutoMigrate(
		&domain.Room{},
		&domain.AudioChunk{},
		&domain.Question{},
	); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return gdb
}

func SeedRoom(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *domain.Room {
	tb.Helper()
	room := &domain.Room{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(room).Error; err != nil {
		tb.Fatalf("seed room: %v", err)
	}
	return room
}

func SeedChunk(tb testing.TB, ctx context.Context, tx *gorm.DB, roomID uuid.UUID, transcript string, embedding []float32) *domain.AudioChunk {
	tb.Helper()
	raw, err := json.Marshal(embedding)
	if err != nil {
		tb.Fatalf("encode embedding: %v", err)
	}
	chunk := &domain.AudioChunk{
		ID:         uuid.New(),
		RoomID:     roomID,
		Transcript: transcript,
		Embedding:  datatypes.JSON(raw),
	}
	if err := tx.WithContext(ctx).Create(chunk).Error; err != nil {
		tb.Fatalf("seed chunk: %v", err)
	}
	return chunk
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, roomID uuid.UUID, question string, answer *string) *domain.Question {
	tb.Helper()
	q := &domain.Question{
		ID:       uuid.New(),
		RoomID:   roomID,
		Question: question,
		Answer:   answer,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func PtrString(v string) *string { return &v }
