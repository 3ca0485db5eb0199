package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/DRSN-tech/recsys-backend/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// IngestOptions — настройки перестроения каталога.
type IngestOptions struct {
	ModelVersion   string
	EmbedBatchSize int
}

// IngestUseCase реализует перестроение каталога: нормализация строк CSV,
// эмбеддинг описаний, транзакционное обновление БД и загрузка векторов.
type IngestUseCase struct {
	productRepo   ProductRepository
	embeddingRepo EmbeddingRepository
	cacheRepo     CacheRepository
	imageRepo     ImageRepository
	embedder      TextEmbedder
	vectorizer    ImageVectorizerInfra
	producer      EventProducer
	dbPool        transaction.Transactional
	logger        logger.Logger
	opts          IngestOptions
}

func NewIngestUC(
	productRepo ProductRepository,
	embeddingRepo EmbeddingRepository,
	cacheRepo CacheRepository,
	imageRepo ImageRepository,
	embedder TextEmbedder,
	vectorizer ImageVectorizerInfra,
	producer EventProducer,
	dbPool transaction.Transactional,
	logger logger.Logger,
	opts IngestOptions,
) *IngestUseCase {
	return &IngestUseCase{
		productRepo:   productRepo,
		embeddingRepo: embeddingRepo,
		cacheRepo:     cacheRepo,
		imageRepo:     imageRepo,
		embedder:      embedder,
		vectorizer:    vectorizer,
		producer:      producer,
		dbPool:        dbPool,
		logger:        logger,
		opts:          opts,
	}
}

// RebuildCatalog загружает каталог заново: метаданные в Postgres, текстовые
// векторы в Qdrant, после чего публикует событие и сбрасывает кэш ответов.
// Строки без кода или названия пропускаются, нераспознанная цена не блокирует
// загрузку товара — он просто не попадёт ни в один ценовой диапазон.
func (u *IngestUseCase) RebuildCatalog(ctx context.Context, rows []IngestRow) (*IngestRes, error) {
	const op = "IngestUseCase.RebuildCatalog"

	products, skipped := u.normalize(rows)
	if len(products) == 0 {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	embeddings, err := u.embedProducts(ctx, products)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()

	pgxTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		err = e.Wrap(op, e.ErrTransactionNotFound)
		return nil, err
	}
	ctx = tr.WithTx(ctx, pgxTx)

	if err = u.productRepo.UpsertBatch(ctx, products); err != nil {
		return nil, e.Wrap(op, err)
	}

	keepCodes := make([]string, 0, len(products))
	for _, p := range products {
		keepCodes = append(keepCodes, p.Code)
	}

	archived, err := u.productRepo.ArchiveMissing(ctx, keepCodes)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if archived > 0 {
		u.logger.Infof("Archived products missing from the new catalog, count: %d", archived)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Векторы пишутся после коммита: при сбое Qdrant каталог в БД валиден,
	// а перезапуск ingest идемпотентно дольёт векторы.
	if err := u.embeddingRepo.UpsertText(ctx, embeddings); err != nil {
		return nil, e.Wrap(op, err)
	}

	u.notifyRebuilt(ctx, len(products))

	return &IngestRes{Loaded: len(products), Skipped: skipped}, nil
}

// SyncImages загружает изображения товаров в объектное хранилище и строит
// по ним векторный индекс. Сбой на отдельном изображении не прерывает
// синхронизацию: оно учитывается в Failed, остальные обрабатываются дальше.
func (u *IngestUseCase) SyncImages(ctx context.Context, uploads []ImageUpload) (*ImageSyncRes, error) {
	const op = "IngestUseCase.SyncImages"

	if len(uploads) == 0 {
		return &ImageSyncRes{}, nil
	}

	embeddings := make([]domain.Embedding, 0, len(uploads))
	failed := 0

	for _, upload := range uploads {
		key := upload.Code + "/" + upload.FileName

		if err := u.imageRepo.Upload(ctx, key, upload.Data, upload.MimeType); err != nil {
			u.logger.Warnf("Failed to upload image %s: %v", key, err)
			failed++
			continue
		}

		vector, err := u.vectorizer.VectorizeImage(ctx, upload.Data, upload.MimeType)
		if err != nil {
			u.logger.Warnf("Failed to vectorize image %s: %v", key, err)
			failed++
			continue
		}

		payload := domain.NewImagePayload(upload.Code, key, u.opts.ModelVersion)
		embeddings = append(embeddings, *domain.NewEmbedding(uuid.NewString(), vector, payload))
	}

	if len(embeddings) > 0 {
		if err := u.embeddingRepo.UpsertImage(ctx, embeddings); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	return &ImageSyncRes{Uploaded: len(embeddings), Failed: failed}, nil
}

// normalize переводит строки CSV в доменные товары, отбрасывая неполные.
func (u *IngestUseCase) normalize(rows []IngestRow) ([]domain.Product, int) {
	products := make([]domain.Product, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		code := strings.TrimSpace(row.Code)
		name := strings.TrimSpace(row.Name)
		if code == "" || name == "" {
			skipped++
			continue
		}

		price := u.parsePrice(code, row.Price)

		products = append(products, domain.Product{
			Code:        code,
			Name:        name,
			Description: strings.TrimSpace(row.Description),
			Price:       price,
			Color:       strings.TrimSpace(row.Color),
			ProductType: strings.TrimSpace(row.ProductType),
			Occasion:    strings.TrimSpace(row.Occasion),
			SkinTone:    strings.TrimSpace(row.SkinTone),
		})
	}

	return products, skipped
}

// parsePrice переводит цену из CSV в минорные единицы; 0 — цена не распознана.
func (u *IngestUseCase) parsePrice(code, raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		u.logger.Warnf("Unparsable product price, code: %s, raw: %q", code, raw)
		return 0
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// embedProducts считает текстовые векторы товаров батчами.
func (u *IngestUseCase) embedProducts(ctx context.Context, products []domain.Product) ([]domain.Embedding, error) {
	batchSize := u.opts.EmbedBatchSize
	if batchSize <= 0 {
		batchSize = 64
	}

	embeddings := make([]domain.Embedding, 0, len(products))

	for start := 0; start < len(products); start += batchSize {
		end := start + batchSize
		if end > len(products) {
			end = len(products)
		}

		texts := make([]string, 0, end-start)
		for _, p := range products[start:end] {
			texts = append(texts, productText(p))
		}

		vectors, err := u.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}

		if len(vectors) != len(texts) {
			return nil, e.ErrEmptyVectors
		}

		for i, vector := range vectors {
			if len(vector) == 0 {
				return nil, e.ErrVectorEmbeddingEmpty
			}

			payload := domain.NewTextPayload(products[start+i].Code, u.opts.ModelVersion)
			embeddings = append(embeddings, *domain.NewEmbedding(uuid.NewString(), vector, payload))
		}
	}

	return embeddings, nil
}

// notifyRebuilt публикует событие перестроения и сбрасывает кэш ответов.
// Оба действия негарантированные: каталог уже перестроен, откатывать нечего.
func (u *IngestUseCase) notifyRebuilt(ctx context.Context, count int) {
	const op = "IngestUseCase.notifyRebuilt"

	event := CatalogRebuiltEvent{
		Products:     count,
		ModelVersion: u.opts.ModelVersion,
		RebuiltAt:    time.Now().UTC().Unix(),
	}

	if err := u.producer.PublishCatalogRebuilt(ctx, event); err != nil {
		u.logger.Warnf("Failed to publish catalog rebuilt event: %v", e.Wrap(op, err))
	}

	if err := u.cacheRepo.InvalidateResponses(ctx); err != nil {
		u.logger.Warnf("Failed to invalidate response cache: %v", e.Wrap(op, err))
	}
}

// productText собирает текст товара для эмбеддинга в том же формате меток,
// что и текст запроса предпочтений.
func productText(p domain.Product) string {
	parts := make([]string, 0, 6)

	parts = append(parts, p.Name)
	if p.ProductType != "" {
		parts = append(parts, "Product Type: "+p.ProductType)
	}
	if p.Occasion != "" {
		parts = append(parts, "Occasion: "+p.Occasion)
	}
	if p.SkinTone != "" {
		parts = append(parts, "Skin Tone Category: "+p.SkinTone)
	}
	if p.Color != "" {
		parts = append(parts, "Color: "+p.Color)
	}
	if p.Description != "" {
		parts = append(parts, "Description: "+p.Description)
	}

	return strings.Join(parts, ", ")
}
