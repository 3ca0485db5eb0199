package main

import (
	"context"
	"flag"
	"os"
	"time"

	config "github.com/DRSN-tech/recsys-backend/internal/cfg"
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
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/DRSN-tech/recsys-backend/pkg/postgres"
	"github.com/joho/godotenv"
)

const (
	initTimeout   = 10 * time.Second
	ingestTimeout = 30 * time.Minute
)

// Утилита перестроения каталога: загружает CSV с товарами, считает
// текстовые эмбеддинги и обновляет PostgreSQL и Qdrant.
func main() {
	_ = godotenv.Load()

	log := logger.New()

	csvPath := flag.String("csv", "", "path to the catalog CSV file")
	imagesDir := flag.String("images", "", "optional directory with product images, one subdirectory per product code")
	flag.Parse()

	if *csvPath == "" {
		log.Errorf(nil, "usage: ingest -csv <path>")
		os.Exit(1)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	rows, err := readCatalogCSV(*csvPath)
	if err != nil {
		log.Errorf(err, "failed to read catalog CSV")
		os.Exit(1)
	}
	log.Infof("Catalog CSV read, rows: %d", len(rows))

	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(log); err != nil {
		log.Errorf(err, "failed to run migrations")
		os.Exit(1)
	}

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		log.Errorf(err, "failed to initialize qdrant")
		os.Exit(1)
	}
	defer qdrantClient.Client.Close()

	qdrantCtx, qdrantCancel := context.WithTimeout(context.Background(), initTimeout)
	err = clients.EnsureCollections(qdrantCtx, qdrantClient)
	qdrantCancel()
	if err != nil {
		log.Errorf(err, "failed to initialize qdrant collections")
		os.Exit(1)
	}

	redisClient := clients.NewRedisClient(cfg.Redis)
	defer redisClient.Client.Close()

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		log.Errorf(err, "failed to initialize minio")
		os.Exit(1)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), initTimeout)
	err = clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName)
	minioCancel()
	if err != nil {
		log.Errorf(err, "failed to ensure minio bucket")
		os.Exit(1)
	}

	producer, err := kafkaInfra.NewProducer(log, cfg.Kafka)
	if err != nil {
		log.Errorf(err, "failed to initialize kafka producer")
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureTopic(initTimeout); err != nil {
		log.Errorf(err, "failed to ensure kafka topic")
		os.Exit(1)
	}

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverter{})
	embRepo := qdrantRepo.NewEmbeddingRepo(qdrantClient, cfg.Qdrant)
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.ResponseConverter{}, cfg.Redis, log)
	imageRepo := minioRepo.NewImageRepo(minioClient, cfg.Minio)
	embedder := openaiInfra.NewEmbedder(cfg.OpenAI, log)
	mlClient := mlservice.NewClient(cfg.Ml, log)

	ingestUC := usecase.NewIngestUC(
		productRepo,
		embRepo,
		cacheRepo,
		imageRepo,
		embedder,
		mlClient,
		producer,
		db.Pool,
		log,
		usecase.IngestOptions{
			ModelVersion: cfg.OpenAI.EmbeddingModel,
		},
	)

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	res, err := ingestUC.RebuildCatalog(ctx, rows)
	if err != nil {
		log.Errorf(err, "catalog rebuild failed")
		os.Exit(1)
	}

	log.Infof("Catalog rebuilt, loaded: %d, skipped: %d", res.Loaded, res.Skipped)

	if *imagesDir == "" {
		return
	}

	uploads, err := readProductImages(*imagesDir, cfg.Minio.UploadImagesLimit)
	if err != nil {
		log.Errorf(err, "failed to read product images")
		os.Exit(1)
	}
	log.Infof("Product images read, files: %d", len(uploads))

	imgRes, err := ingestUC.SyncImages(ctx, uploads)
	if err != nil {
		log.Errorf(err, "image sync failed")
		os.Exit(1)
	}

	log.Infof("Images synced, uploaded: %d, failed: %d", imgRes.Uploaded, imgRes.Failed)
}
