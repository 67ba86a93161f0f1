package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/yungbote/askroom-backend/internal/pkg/errors"
	"github.com/yungbote/askroom-backend/internal/platform/ctxutil"
	"github.com/yungbote/askroom-backend/internal/platform/envutil"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
)

// Embedder converts text into a fixed-length dense vector. Output is treated
// as deterministic per input for a given model version; the provider does not
// hard-guarantee this, so it is a documented assumption rather than a
// contract.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// AnswerGenerator synthesizes a grounded answer from ordered context
// passages, or an explicit refusal when the context is inadequate.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question string, contextPassages []string) (string, error)
}

type Client struct {
	log        *logger.Logger
	client     *openai.Client
	chatModel  string
	embedModel string
	dimensions int
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

func NewClient(log *logger.Logger) (*Client, error) {
	apiKey := envutil.GetEnv("OPENAI_API_KEY", "", log)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := envutil.GetEnv("OPENAI_BASE_URL", "", log); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Client{
		log:        log.With("service", "OpenAIClient"),
		client:     openai.NewClientWithConfig(cfg),
		chatModel:  envutil.GetEnv("OPENAI_MODEL", openai.GPT4oMini, log),
		embedModel: envutil.GetEnv("OPENAI_EMBED_MODEL", string(openai.SmallEmbedding3), log),
		dimensions: envutil.GetEnvAsInt("EMBEDDING_DIMENSIONS", 768, log),
		maxRetries: envutil.GetEnvAsInt("OPENAI_MAX_RETRIES", 3, log),
		retryDelay: 2 * time.Second,
		timeout:    time.Duration(envutil.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 60, log)) * time.Second,
	}, nil
}

func (c *Client) Dimensions() int { return c.dimensions }

// EmbedModel identifies the embedding model in use; cache keys include it so
// a model change never serves stale vectors.
func (c *Client) EmbedModel() string { return c.embedModel }

func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty input text", apperrors.ErrEmbedding)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.retryDelay*time.Duration(attempt)); err != nil {
				break
			}
			c.log.Debug("Retrying embedding request", "attempt", attempt)
		}

		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:      []string{text},
			Model:      openai.EmbeddingModel(c.embedModel),
			Dimensions: c.dimensions,
		})
		if err != nil {
			lastErr = err
			if !retryable(err) {
				break
			}
			continue
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return nil, fmt.Errorf("%w: provider returned empty vector", apperrors.ErrEmbedding)
		}
		emb := resp.Data[0].Embedding
		if len(emb) != c.dimensions {
			return nil, fmt.Errorf("%w: expected %d dimensions, got %d", apperrors.ErrEmbedding, c.dimensions, len(emb))
		}
		return emb, nil
	}
	return nil, fmt.Errorf("%w: %v", apperrors.ErrEmbedding, lastErr)
}

func (c *Client) GenerateAnswer(ctx context.Context, question string, contextPassages []string) (string, error) {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := BuildAnswerPrompt(question, contextPassages)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.retryDelay*time.Duration(attempt)); err != nil {
				break
			}
			c.log.Debug("Retrying answer generation", "attempt", attempt)
		}

		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: answerSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			lastErr = err
			if !retryable(err) {
				break
			}
			continue
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: provider returned no choices", apperrors.ErrSynthesis)
		}
		answer := strings.TrimSpace(resp.Choices[0].Message.Content)
		if answer == "" {
			return "", fmt.Errorf("%w: provider returned empty output", apperrors.ErrSynthesis)
		}
		return answer, nil
	}
	return "", fmt.Errorf("%w: %v", apperrors.ErrSynthesis, lastErr)
}

func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	// Transport-level failures (connection reset, timeouts) are worth one more try.
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
