package usecase

import (
	"context"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
)

// TextEmbedder переводит текст в вектор модели, которой эмбеддится каталог.
type TextEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Explainer генерирует короткое объяснение, почему товар подходит предпочтениям.
type Explainer interface {
	Explain(ctx context.Context, pref *domain.Preference, product domain.Product) (string, error)
}

// ImageVectorizerInfra запрашивает вектор изображения у ML-сервиса.
type ImageVectorizerInfra interface {
	VectorizeImage(ctx context.Context, data []byte, mimeType string) ([]float32, error)
}

// EventProducer публикует события каталога в шину.
type EventProducer interface {
	PublishCatalogRebuilt(ctx context.Context, event CatalogRebuiltEvent) error
}
