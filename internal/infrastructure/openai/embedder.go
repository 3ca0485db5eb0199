package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/recsys-backend/internal/cfg"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/jitter"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	openai "github.com/sashabaranov/go-openai"
)

// Embedder получает текстовые эмбеддинги через OpenAI-совместимый API.
// Каталог и запросы должны эмбеддиться одной моделью, иначе расстояния
// теряют смысл.
type Embedder struct {
	client *openai.Client
	cfg    *cfg.OpenAICfg
	logger logger.Logger
}

func NewEmbedder(cfg *cfg.OpenAICfg, logger logger.Logger) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.ApiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Embedder{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger,
	}
}

// EmbedText переводит один текст в вектор.
func (em *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	const op = "Embedder.EmbedText"

	vectors, err := em.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return vectors[0], nil
}

// EmbedBatch переводит батч текстов в векторы с retry-логикой
// и экспоненциальной задержкой.
func (em *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	const (
		op         = "Embedder.EmbedBatch"
		baseJitter = 500 * time.Millisecond
		maxJitter  = 10 * time.Second
	)

	if len(texts) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyVectors)
	}

	var lastErr error
	for attempt := 0; attempt < em.cfg.MaxRetries; attempt++ {
		vectors, err := em.embed(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		if attempt == em.cfg.MaxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(baseJitter, maxJitter, attempt, jitter.DefaultJitter)

		em.logger.Warnf("embedding request failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", em.cfg.MaxRetries, lastErr))
}

func (em *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, em.cfg.Timeout)
	defer cancel()

	res, err := em.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(em.cfg.EmbeddingModel),
		Input: texts,
	})
	if err != nil {
		return nil, err
	}

	if len(res.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(res.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range res.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}

	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d: %w", i, e.ErrVectorEmbeddingEmpty)
		}
	}

	return vectors, nil
}
