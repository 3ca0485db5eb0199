package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/recsys-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/recsys-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/internal/engine"
	kafkaInfra "github.com/DRSN-tech/recsys-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/recsys-backend/internal/infrastructure/mlservice"
	openaiInfra "github.com/DRSN-tech/recsys-backend/internal/infrastructure/openai"
	minioRepo "github.com/DRSN-tech/recsys-backend/internal/repository/minio"
	"github.com/DRSN-tech/recsys-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/recsys-backend/internal/repository/pgdb/converter"
	qdrantRepo "github.com/DRSN-tech/recsys-backend/internal/repository/qdrant"
	"github.com/DRSN-tech/recsys-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/recsys-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/recsys-backend/internal/usecase"
	"github.com/DRSN-tech/recsys-backend/pkg/clients"
	"github.com/DRSN-tech/recsys-backend/pkg/closer"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/DRSN-tech/recsys-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App связывает конфигурацию, инфраструктуру и HTTP-сервер сервиса рекомендаций.
type App struct {
	cfg         *config.Config
	logger      logger.Logger
	httpSrv     *v1Http.Server
	invalidator *kafkaInfra.CacheInvalidator
	closer      *closer.Closer
}

// NewApp инициализирует все зависимости: БД с миграциями, Qdrant, Redis,
// Kafka, клиентов моделей и каталог в памяти.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.New(0)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(context.Context) error {
		db.Close()
		return nil
	})

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(context.Context) error {
		return qdrantClient.Client.Close()
	})

	qdrantCtx, qdrantCancel := context.WithTimeout(context.Background(), initTimeout)
	err = clients.EnsureCollections(qdrantCtx, qdrantClient)
	qdrantCancel()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), initTimeout)
	err = redisClient.Ping(redisCtx)
	redisCancel()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(context.Context) error {
		return redisClient.Client.Close()
	})

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), initTimeout)
	err = clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName)
	minioCancel()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverter{})
	imageRepo := minioRepo.NewImageRepo(minioClient, cfg.Minio)
	embRepo := qdrantRepo.NewEmbeddingRepo(qdrantClient, cfg.Qdrant)
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.ResponseConverter{}, cfg.Redis, log)

	embedder := openaiInfra.NewEmbedder(cfg.OpenAI, log)
	explainer := openaiInfra.NewExplainer(cfg.OpenAI, log)
	mlClient := mlservice.NewClient(cfg.Ml, log)

	storeCtx, storeCancel := context.WithTimeout(context.Background(), initTimeout)
	store, err := loadStore(storeCtx, productRepo, embRepo, log)
	storeCancel()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	eng := engine.New(store, embedder, log)

	recUC := usecase.NewRecommendUC(eng, cacheRepo, explainer, log, usecase.RecommendOptions{
		DefaultTopN:    cfg.Catalog.DefaultTopN,
		MaxTopN:        cfg.Catalog.MaxTopN,
		ImageBaseURL:   cfg.Catalog.ImageBaseURL,
		CacheTTL:       cfg.Redis.ResponseTTL,
		ExplainTimeout: cfg.OpenAI.Timeout,
		ExplainWorkers: cfg.OpenAI.MaxConcurrent,
	})

	searchUC := usecase.NewVisualSearchUC(mlClient, embRepo, productRepo, log, usecase.VisualSearchOptions{
		DefaultTopN:  cfg.Catalog.DefaultTopN,
		MaxTopN:      cfg.Catalog.MaxTopN,
		MaxImageSize: 15 << 20,
		ImageBaseURL: cfg.Catalog.ImageBaseURL,
	})

	invalidator := kafkaInfra.NewCacheInvalidator(cfg.Kafka, cacheRepo, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(recUC, searchUC, imageRepo)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	return &App{
		cfg:         cfg,
		logger:      log,
		httpSrv:     httpSrv,
		invalidator: invalidator,
		closer:      cl,
	}, nil
}

// Run запускает слушатель событий каталога и HTTP-сервер и блокируется
// до сигнала завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	a.invalidator.Start(consumerCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	consumerCancel()
	a.invalidator.Stop()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("Resource shutdown error: %v", err)
	}

	a.logger.Infof("Application shutdown complete")

	return appErr
}

// loadStore собирает каталог в памяти: метаданные из PostgreSQL, текстовые
// векторы из Qdrant, сопоставленные по коду товара. Товары без вектора
// в каталог не попадают, порядок остаётся порядком загрузки из БД.
func loadStore(ctx context.Context, productRepo usecase.ProductRepository,
	embRepo usecase.EmbeddingRepository, log logger.Logger) (*engine.Store, error) {
	products, err := productRepo.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	vectors, err := embRepo.TextVectors(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Product, 0, len(products))
	matchedVectors := make([][]float32, 0, len(products))

	for _, product := range products {
		vector, ok := vectors[product.Code]
		if !ok {
			log.Warnf("Product without text vector, code: %s", product.Code)
			continue
		}

		matched = append(matched, product)
		matchedVectors = append(matchedVectors, vector)
	}

	log.Infof("Catalog loaded, products: %d, with vectors: %d", len(products), len(matched))

	return engine.NewStore(matched, matchedVectors)
}

func initPGDB(log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(log); err != nil {
		log.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		log.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
