package mlservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/DRSN-tech/recsys-backend/internal/cfg"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/jitter"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
)

// Client — HTTP-клиент ML-сервиса векторизации изображений.
// Конкурентность ограничена семафором, сетевые сбои ретраятся
// с экспоненциальной задержкой.
type Client struct {
	httpClient *http.Client
	cfg        *cfg.MLServiceCfg
	sem        chan struct{}
	logger     logger.Logger
}

// vectorizeResponse — тело ответа POST /vectorize.
type vectorizeResponse struct {
	Vector       []float32 `json:"vector"`
	ModelVersion string    `json:"model_version"`
}

func NewClient(cfg *cfg.MLServiceCfg, logger logger.Logger) *Client {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		sem:        make(chan struct{}, maxConcurrent),
		logger:     logger,
	}
}

// VectorizeImage получает вектор изображения с retry-логикой.
func (c *Client) VectorizeImage(ctx context.Context, data []byte, mimeType string) ([]float32, error) {
	const (
		op         = "mlservice.VectorizeImage"
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, e.Wrap(op, ctx.Err())
	}

	retries := c.cfg.MaxRetries
	if retries <= 0 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		vector, err := c.vectorize(ctx, data, mimeType)
		if err == nil {
			return vector, nil
		}
		lastErr = err

		if attempt == retries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(baseJitter, maxJitter, attempt, jitter.DefaultJitter)

		c.logger.Warnf("vectorization failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", retries, lastErr))
}

func (c *Client) vectorize(ctx context.Context, data []byte, mimeType string) ([]float32, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="image"; filename="image"`}
	header["Content-Type"] = []string{mimeType}

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/vectorize", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, fmt.Errorf("%w: status %d: %s", e.ErrExternalServiceFailure, res.StatusCode, payload)
	}

	var parsed vectorizeResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	if len(parsed.Vector) == 0 {
		return nil, e.ErrVectorEmbeddingEmpty
	}

	return parsed.Vector, nil
}
