package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
)

type ProductRepository interface {
	// GetCatalog возвращает неархивные товары в стабильном порядке (по id).
	GetCatalog(ctx context.Context) ([]domain.Product, error)
	GetByCodes(ctx context.Context, codes []string) ([]domain.Product, error)
	UpsertBatch(ctx context.Context, products []domain.Product) error
	ArchiveMissing(ctx context.Context, keepCodes []string) (int64, error)
}

type EmbeddingRepository interface {
	UpsertText(ctx context.Context, embeddings []domain.Embedding) error
	UpsertImage(ctx context.Context, embeddings []domain.Embedding) error
	// TextVectors выгружает все текстовые векторы каталога: код товара -> вектор.
	TextVectors(ctx context.Context) (map[string][]float32, error)
	SearchImage(ctx context.Context, vector []float32, limit uint64) ([]ImageHit, error)
}

type CacheRepository interface {
	GetRecommendations(ctx context.Context, key string) (*RecommendRes, error)
	SetRecommendations(ctx context.Context, key string, res *RecommendRes, ttl time.Duration) error
	GetFilterOptions(ctx context.Context) (*FilterOptionsRes, error)
	SetFilterOptions(ctx context.Context, res *FilterOptionsRes, ttl time.Duration) error
	// InvalidateResponses удаляет все закэшированные ответы рекомендаций и фильтров.
	InvalidateResponses(ctx context.Context) error
}

type ImageRepository interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// Get возвращает содержимое и content-type объекта.
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
}
