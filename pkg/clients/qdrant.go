package clients

import (
	"context"
	"fmt"

	config "github.com/DRSN-tech/recsys-backend/internal/cfg"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

type QdrantClient struct {
	Client *qdrant.Client
	cfg    *config.QdrantCfg
}

func NewQdrantClient(cfg *config.QdrantCfg) (*QdrantClient, error) {
	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.ApiKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &QdrantClient{
		Client: qdrantClient,
		cfg:    cfg,
	}, nil
}

// EnsureCollections создаёт коллекции каталога, если они отсутствуют.
// Текстовая коллекция использует евклидову метрику (совместимо с поиском
// по отфильтрованному подмножеству), коллекция изображений — косинусную.
func EnsureCollections(ctx context.Context, client *QdrantClient) error {
	if err := ensureCollection(ctx, client, client.cfg.TextCollection, client.cfg.VectorSize, qdrant.Distance_Euclid); err != nil {
		return err
	}

	return ensureCollection(ctx, client, client.cfg.ImageCollection, client.cfg.ImageVectorSize, qdrant.Distance_Cosine)
}

func ensureCollection(ctx context.Context, client *QdrantClient, name string, size uint64, distance qdrant.Distance) error {
	exists, err := client.Client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		if err := client.Client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     size,
				Distance: distance,
			}),
		}); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	return nil
}
