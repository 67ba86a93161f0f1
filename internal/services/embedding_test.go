package services

import (
	"context"
	"testing"

	"github.com/yungbote/askroom-backend/internal/data/repos/testutil"
)

func TestEmbedCachesByModelAndText(t *testing.T) {
	ctx := context.Background()
	embedder := &fakeEmbedder{vec: []float32{0.5, 0.5}, dims: 2}
	cache := newFakeCache()
	svc := NewEmbeddingService(embedder, cache, "test-model", testutil.Logger(t))

	first, err := svc.Embed(ctx, "repeated text")
	if err != nil {
		t.Fatalf("first embed: %v", err)
	}
	second, err := svc.Embed(ctx, "repeated text")
	if err != nil {
		t.Fatalf("second embed: %v", err)
	}
	if embedder.calls != 1 {
		t.Fatalf("embedder calls: got=%d want=1", embedder.calls)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets: got=%d want=1", cache.sets)
	}
	if len(first) != len(second) {
		t.Fatalf("cached embedding length mismatch: %d vs %d", len(first), len(second))
	}
}

func TestEmbedIgnoresCachedValueWithWrongDimensions(t *testing.T) {
	ctx := context.Background()
	embedder := &fakeEmbedder{vec: []float32{0.5, 0.5}, dims: 2}
	cache := newFakeCache()
	cache.store["test-model\x00stale text"] = []float32{1, 2, 3}
	svc := NewEmbeddingService(embedder, cache, "test-model", testutil.Logger(t))

	emb, err := svc.Embed(ctx, "stale text")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(emb) != 2 {
		t.Fatalf("stale cache entry leaked through: %v", emb)
	}
	if embedder.calls != 1 {
		t.Fatalf("embedder calls: got=%d want=1", embedder.calls)
	}
}

func TestEmbedWithoutCache(t *testing.T) {
	ctx := context.Background()
	embedder := &fakeEmbedder{vec: []float32{1}, dims: 1}
	svc := NewEmbeddingService(embedder, nil, "test-model", testutil.Logger(t))

	for i := 0; i < 3; i++ {
		if _, err := svc.Embed(ctx, "same text"); err != nil {
			t.Fatalf("embed %d: %v", i, err)
		}
	}
	if embedder.calls != 3 {
		t.Fatalf("embedder calls: got=%d want=3", embedder.calls)
	}
}
