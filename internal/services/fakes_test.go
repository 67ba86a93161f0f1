package services

import (
	"context"
	"sync"
)

type fakeTranscriber struct {
	transcript string
	err        error

	mu    sync.Mutex
	calls int
}

func (f *fakeTranscriber) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

func (f *fakeTranscriber) Close() error { return nil }

type fakeEmbedder struct {
	vec  []float32
	dims int
	err  error

	mu    sync.Mutex
	calls int
	texts []string
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

func (f *fakeEmbedder) Dimensions() int { return f.dims }

type fakeGenerator struct {
	answer string
	err    error

	calls       int
	gotQuestion string
	gotPassages []string
}

func (f *fakeGenerator) GenerateAnswer(ctx context.Context, question string, contextPassages []string) (string, error) {
	f.calls++
	f.gotQuestion = question
	f.gotPassages = contextPassages
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeArchive struct {
	err error

	keys         []string
	contentTypes []string
}

func (f *fakeArchive) ArchiveAudio(ctx context.Context, key string, audio []byte, contentType string) error {
	f.keys = append(f.keys, key)
	f.contentTypes = append(f.contentTypes, contentType)
	return f.err
}

func (f *fakeArchive) Close() error { return nil }

type fakeCache struct {
	store map[string][]float32

	gets int
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]float32)}
}

func (f *fakeCache) Get(ctx context.Context, model, text string) ([]float32, bool) {
	f.gets++
	emb, ok := f.store[model+"\x00"+text]
	return emb, ok
}

func (f *fakeCache) Set(ctx context.Context, model, text string, embedding []float32) {
	f.sets++
	f.store[model+"\x00"+text] = embedding
}

func (f *fakeCache) Close() error { return nil }
