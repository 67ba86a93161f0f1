package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/askroom-backend/internal/data/repos/testutil"
	"github.com/yungbote/askroom-backend/internal/domain"
	apperrors "github.com/yungbote/askroom-backend/internal/pkg/errors"
)

func TestAudioChunkCreateAndSearch(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	repo := NewAudioChunkRepo(db, log)

	room := testutil.SeedRoom(t, ctx, db, "search room")

	chunk, err := repo.Create(ctx, nil, room.ID, "the capital of France is Paris", []float32{1, 0, 0})
	if err != nil {
		t.Fatalf("create chunk: %v", err)
	}
	if chunk.ID == uuid.Nil {
		t.Fatal("expected chunk id to be assigned")
	}

	hits, err := repo.SearchSimilar(ctx, nil, room.ID, []float32{1, 0, 0}, 0.7, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("unexpected hit count: got=%d want=1", len(hits))
	}
	if hits[0].Chunk.Transcript != "the capital of France is Paris" {
		t.Fatalf("unexpected transcript: %q", hits[0].Chunk.Transcript)
	}
	if hits[0].Score != 1.0 {
		t.Fatalf("unexpected score: got=%v want=1.0", hits[0].Score)
	}
}

func TestSearchSimilarExcludesScoresAtOrBelowThreshold(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewAudioChunkRepo(db, testutil.Logger(t))

	room := testutil.SeedRoom(t, ctx, db, "threshold room")
	// Against query [1,0,0]: "well below" scores 0, "roughly half" ~0.49,
	// "clearly above" ~0.98.
	testutil.SeedChunk(t, ctx, db, room.ID, "well below", []float32{0, 1, 0})
	testutil.SeedChunk(t, ctx, db, room.ID, "roughly half", []float32{1, 1.8, 0})
	testutil.SeedChunk(t, ctx, db, room.ID, "clearly above", []float32{1, 0.2, 0})

	hits, err := repo.SearchSimilar(ctx, nil, room.ID, []float32{1, 0, 0}, 0.7, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("unexpected hit count: got=%d want=1", len(hits))
	}
	if hits[0].Chunk.Transcript != "clearly above" {
		t.Fatalf("unexpected hit: %q", hits[0].Chunk.Transcript)
	}
}

func TestSearchSimilarThresholdIsStrict(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewAudioChunkRepo(db, testutil.Logger(t))

	room := testutil.SeedRoom(t, ctx, db, "strict room")
	testutil.SeedChunk(t, ctx, db, room.ID, "perfect match", []float32{1, 0})

	// Identical vectors score exactly 1.0; a threshold of 1.0 must exclude
	// them because only strictly greater scores survive.
	hits, err := repo.SearchSimilar(ctx, nil, room.ID, []float32{1, 0}, 1.0, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("score equal to threshold must be excluded, got %d hits", len(hits))
	}
}

func TestSearchSimilarOrdersByScoreAndTruncatesToTopK(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewAudioChunkRepo(db, testutil.Logger(t))

	room := testutil.SeedRoom(t, ctx, db, "topk room")
	// Scores against [1,0,0]: first 1.0, second ~0.98, third ~0.86, fourth ~0.74.
	// Seeded out of score order so ordering comes from the search, not the scan.
	testutil.SeedChunk(t, ctx, db, room.ID, "third", []float32{1, 0.6, 0})
	testutil.SeedChunk(t, ctx, db, room.ID, "first", []float32{1, 0, 0})
	testutil.SeedChunk(t, ctx, db, room.ID, "second", []float32{1, 0.2, 0})
	testutil.SeedChunk(t, ctx, db, room.ID, "fourth", []float32{1, 0.9, 0})

	hits, err := repo.SearchSimilar(ctx, nil, room.ID, []float32{1, 0, 0}, 0.7, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("unexpected hit count: got=%d want=3", len(hits))
	}
	wantOrder := []string{"first", "second", "third"}
	for i, want := range wantOrder {
		if hits[i].Chunk.Transcript != want {
			t.Fatalf("position %d: got=%q want=%q", i, hits[i].Chunk.Transcript, want)
		}
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Fatalf("scores not descending at %d: %v > %v", i, hits[i].Score, hits[i-1].Score)
		}
	}
}

func TestSearchSimilarBreaksTiesByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewAudioChunkRepo(db, testutil.Logger(t))

	room := testutil.SeedRoom(t, ctx, db, "tie room")

	base := time.Now().UTC().Truncate(time.Second)
	for i, transcript := range []string{"older", "newer"} {
		chunk := &domain.AudioChunk{
			ID:         uuid.New(),
			RoomID:     room.ID,
			Transcript: transcript,
			Embedding:  []byte("[1,0]"),
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		if err := db.WithContext(ctx).Create(chunk).Error; err != nil {
			t.Fatalf("seed chunk %q: %v", transcript, err)
		}
	}

	hits, err := repo.SearchSimilar(ctx, nil, room.ID, []float32{1, 0}, 0.5, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("unexpected hit count: got=%d want=2", len(hits))
	}
	if hits[0].Chunk.Transcript != "older" || hits[1].Chunk.Transcript != "newer" {
		t.Fatalf("tie not broken by insertion order: got [%q, %q]",
			hits[0].Chunk.Transcript, hits[1].Chunk.Transcript)
	}
}

func TestSearchSimilarIsScopedToRoom(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewAudioChunkRepo(db, testutil.Logger(t))

	roomA := testutil.SeedRoom(t, ctx, db, "room a")
	roomB := testutil.SeedRoom(t, ctx, db, "room b")
	testutil.SeedChunk(t, ctx, db, roomA.ID, "belongs to a", []float32{1, 0})
	testutil.SeedChunk(t, ctx, db, roomB.ID, "belongs to b", []float32{1, 0})

	hits, err := repo.SearchSimilar(ctx, nil, roomA.ID, []float32{1, 0}, 0.5, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Chunk.Transcript != "belongs to a" {
		t.Fatalf("search leaked across rooms: %+v", hits)
	}
}

func TestSearchSimilarEmptyRoomReturnsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewAudioChunkRepo(db, testutil.Logger(t))

	room := testutil.SeedRoom(t, ctx, db, "empty room")

	hits, err := repo.SearchSimilar(ctx, nil, room.ID, []float32{1, 0}, 0.7, 3)
	if err != nil {
		t.Fatalf("search on empty room must not error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("unexpected hits: %d", len(hits))
	}
}

func TestSearchSimilarSkipsUndecodableEmbeddings(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewAudioChunkRepo(db, testutil.Logger(t))

	room := testutil.SeedRoom(t, ctx, db, "corrupt room")
	corrupt := &domain.AudioChunk{
		ID:         uuid.New(),
		RoomID:     room.ID,
		Transcript: "corrupt",
		Embedding:  []byte("not json"),
	}
	if err := db.WithContext(ctx).Create(corrupt).Error; err != nil {
		t.Fatalf("seed corrupt chunk: %v", err)
	}
	testutil.SeedChunk(t, ctx, db, room.ID, "healthy", []float32{1, 0})

	hits, err := repo.SearchSimilar(ctx, nil, room.ID, []float32{1, 0}, 0.5, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Chunk.Transcript != "healthy" {
		t.Fatalf("expected only the healthy chunk, got %+v", hits)
	}
}

func TestListByRoomOmitsEmbeddings(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewAudioChunkRepo(db, testutil.Logger(t))

	room := testutil.SeedRoom(t, ctx, db, "list room")
	testutil.SeedChunk(t, ctx, db, room.ID, "hello", []float32{1, 0})

	chunks, err := repo.ListByRoom(ctx, nil, room.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("unexpected chunk count: got=%d want=1", len(chunks))
	}
	if len(chunks[0].Embedding) != 0 {
		t.Fatalf("embedding must not be loaded by listing: %s", chunks[0].Embedding)
	}
	if chunks[0].Transcript != "hello" {
		t.Fatalf("unexpected transcript: %q", chunks[0].Transcript)
	}
}

func TestCountByRoom(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewAudioChunkRepo(db, testutil.Logger(t))

	room := testutil.SeedRoom(t, ctx, db, "count room")
	testutil.SeedChunk(t, ctx, db, room.ID, "one", []float32{1, 0})
	testutil.SeedChunk(t, ctx, db, room.ID, "two", []float32{0, 1})

	count, err := repo.CountByRoom(ctx, nil, room.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("unexpected count: got=%d want=2", count)
	}
}

func TestSearchSimilarZeroTopK(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewAudioChunkRepo(db, testutil.Logger(t))

	room := testutil.SeedRoom(t, ctx, db, "zero topk room")
	testutil.SeedChunk(t, ctx, db, room.ID, "hello", []float32{1, 0})

	hits, err := repo.SearchSimilar(ctx, nil, room.ID, []float32{1, 0}, 0.5, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("topK=0 must return nothing, got %d", len(hits))
	}
}

func TestCreateWrapsPersistenceFailures(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewAudioChunkRepo(db, testutil.Logger(t))

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err = repo.Create(ctx, nil, uuid.New(), "text", []float32{1})
	if !errors.Is(err, apperrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}
