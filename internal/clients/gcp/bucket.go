package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/yungbote/askroom-backend/internal/platform/ctxutil"
	"github.com/yungbote/askroom-backend/internal/platform/envutil"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

// AudioArchive keeps a copy of every uploaded audio unit in object storage.
// Archival is best-effort: ingestion carries on when the bucket is down.
type AudioArchive interface {
	ArchiveAudio(ctx context.Context, key string, audio []byte, contentType string) error
	Close() error
}

type audioArchive struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

// NewAudioArchive returns (nil, nil) when AUDIO_BUCKET_NAME is not set, in
// which case archival is disabled.
func NewAudioArchive(log *logger.Logger) (AudioArchive, error) {
	bucket := envutil.GetEnv("AUDIO_BUCKET_NAME", "", log)
	if bucket == "" {
		return nil, nil
	}

	client, err := storage.NewClient(context.Background(), ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	return &audioArchive{
		log:    log.With("service", "gcp.AudioArchive"),
		client: client,
		bucket: bucket,
	}, nil
}

func (a *audioArchive) ArchiveAudio(ctx context.Context, key string, audio []byte, contentType string) error {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, bytes.NewReader(audio)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write audio to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (a *audioArchive) Close() error {
	if a == nil || a.client == nil {
		return nil
	}
	return a.client.Close()
}
