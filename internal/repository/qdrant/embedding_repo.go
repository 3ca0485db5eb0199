package qdrant

import (
	"context"

	"github.com/DRSN-tech/recsys-backend/internal/cfg"
	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/internal/usecase"
	"github.com/DRSN-tech/recsys-backend/pkg/clients"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// scrollBatchSize — размер страницы при полной выгрузке коллекции.
const scrollBatchSize = 512

// EmbeddingRepo репозиторий для работы с embedding-векторами в Qdrant:
// текстовая коллекция каталога и коллекция изображений.
type EmbeddingRepo struct {
	client *clients.QdrantClient
	cfg    *cfg.QdrantCfg
}

func NewEmbeddingRepo(client *clients.QdrantClient, cfg *cfg.QdrantCfg) *EmbeddingRepo {
	return &EmbeddingRepo{
		client: client,
		cfg:    cfg,
	}
}

// UpsertText сохраняет или обновляет текстовые векторы каталога.
func (q *EmbeddingRepo) UpsertText(ctx context.Context, embeddings []domain.Embedding) error {
	return q.upsert(ctx, q.cfg.TextCollection, embeddings)
}

// UpsertImage сохраняет или обновляет векторы изображений.
func (q *EmbeddingRepo) UpsertImage(ctx context.Context, embeddings []domain.Embedding) error {
	return q.upsert(ctx, q.cfg.ImageCollection, embeddings)
}

func (q *EmbeddingRepo) upsert(ctx context.Context, collection string, embeddings []domain.Embedding) error {
	points := make([]*qdrant.PointStruct, 0, len(embeddings))
	for _, emb := range embeddings {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(emb.ID),
			Vectors: qdrant.NewVectors(emb.Vector...),
			Payload: qdrant.NewValueMap(emb.Payload),
		})
	}

	_, err := q.client.Client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// TextVectors выгружает все текстовые векторы каталога: код товара -> вектор.
// Коллекция читается постранично; при повторном появлении кода побеждает
// последняя запись.
func (q *EmbeddingRepo) TextVectors(ctx context.Context) (map[string][]float32, error) {
	vectors := make(map[string][]float32)

	var offset *qdrant.PointId
	for {
		points, err := q.client.Client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: q.cfg.TextCollection,
			Limit:          qdrant.PtrOf(uint32(scrollBatchSize)),
			Offset:         offset,
			WithVectors:    qdrant.NewWithVectors(true),
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		if len(points) == 0 {
			break
		}

		for _, point := range points {
			// Страницы перекрываются на одну точку: offset включителен.
			if offset != nil && point.GetId().String() == offset.String() {
				continue
			}

			code := point.GetPayload()["product_code"].GetStringValue()
			if code == "" {
				continue
			}

			data := point.GetVectors().GetVector().GetData()
			if len(data) == 0 {
				continue
			}

			vectors[code] = data
		}

		if len(points) < scrollBatchSize {
			break
		}
		offset = points[len(points)-1].GetId()
	}

	return vectors, nil
}

// SearchImage ищет ближайшие векторы в коллекции изображений.
// Score — косинусная схожесть из Qdrant, чем больше, тем ближе.
func (q *EmbeddingRepo) SearchImage(ctx context.Context, vector []float32, limit uint64) ([]usecase.ImageHit, error) {
	points, err := q.client.Client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.cfg.ImageCollection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	hits := make([]usecase.ImageHit, 0, len(points))
	for _, point := range points {
		payload := point.GetPayload()
		hits = append(hits, usecase.ImageHit{
			ProductCode: payload["product_code"].GetStringValue(),
			ImagePath:   payload["image_path"].GetStringValue(),
			Score:       float64(point.GetScore()),
		})
	}

	return hits, nil
}
