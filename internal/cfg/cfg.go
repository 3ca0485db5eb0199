package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Http    *HTTPConfig
	Db      *PGDBCfg
	Qdrant  *QdrantCfg
	Redis   *RedisCfg
	Minio   *MinIOCfg
	Kafka   *KafkaCfg
	OpenAI  *OpenAICfg
	Ml      *MLServiceCfg
	Catalog *CatalogCfg
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type QdrantCfg struct {
	Host            string
	Port            int
	ApiKey          string
	TextCollection  string // коллекция текстовых эмбеддингов каталога
	ImageCollection string // коллекция эмбеддингов изображений
	UseTLS          bool
	VectorSize      uint64 // размерность текстовых эмбеддингов
	ImageVectorSize uint64 // размерность эмбеддингов изображений
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ResponseTTL time.Duration // TTL кэша ответов рекомендаций
}

type MinIOCfg struct {
	MinioEndpoint     string
	BucketName        string
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	UploadImagesLimit int
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	GroupID           string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

// OpenAICfg — настройки клиента эмбеддингов и генерации объяснений.
type OpenAICfg struct {
	ApiKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	Timeout        time.Duration
	MaxConcurrent  int // лимит одновременных запросов объяснений
	MaxRetries     int
}

// MLServiceCfg — настройки клиента векторизации изображений.
type MLServiceCfg struct {
	BaseURL       string
	Timeout       time.Duration
	MaxConcurrent int
	MaxRetries    int
}

// CatalogCfg — параметры выдачи рекомендаций.
type CatalogCfg struct {
	DefaultTopN  int    // сколько рекомендаций возвращать по умолчанию
	MaxTopN      int    // верхняя граница top_n из запроса
	ImageBaseURL string // базовый путь ссылок на изображения товаров
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	openAI, err := loadOpenAICfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ml, err := loadMLServiceCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	catalog, err := loadCatalogCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:    http,
		Db:      db,
		Qdrant:  qdrant,
		Redis:   redis,
		Minio:   minio,
		Kafka:   kafka,
		OpenAI:  openAI,
		Ml:      ml,
		Catalog: catalog,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 30 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	// WriteTimeout должен вмещать синхронные вызовы объяснений
	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadQdrantCfg(log logger.Logger) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort  = "6334"
		defaultUseTLS          = false
		defaultVectorSize      = "384" // all-MiniLM-L6-v2
		defaultImageVectorSize = "1280"
		defaultTextCollection  = "catalog_text"
		defaultImageCollection = "catalog_images"
	)

	strPort := getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort)
	port, err := strconv.Atoi(strPort)
	if err != nil {
		log.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		log.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	vectorSize, err := strconv.ParseUint(getEnvOrDefault("VECTOR_SIZE", defaultVectorSize), 10, 64)
	if err != nil {
		log.Errorf(err, "invalid VECTOR_SIZE")
		return nil, err
	}

	imageVectorSize, err := strconv.ParseUint(getEnvOrDefault("IMAGE_VECTOR_SIZE", defaultImageVectorSize), 10, 64)
	if err != nil {
		log.Errorf(err, "invalid IMAGE_VECTOR_SIZE")
		return nil, err
	}

	return &QdrantCfg{
		Host:            getEnv("QDRANT_HOST"),
		Port:            port,
		ApiKey:          getEnv("QDRANT__SERVICE__API_KEY"),
		TextCollection:  getEnvOrDefault("TEXT_COLLECTION_NAME", defaultTextCollection),
		ImageCollection: getEnvOrDefault("IMAGE_COLLECTION_NAME", defaultImageCollection),
		UseTLS:          useTLS,
		VectorSize:      vectorSize,
		ImageVectorSize: imageVectorSize,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultResponseTTL  = 10 * time.Minute
	)

	addr := getEnvOrDefault("REDIS_ADDR", defaultAddr)
	password := getEnv("REDIS_PASSWORD")
	user := getEnv("REDIS_USER")

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	responseTTL, err := parseDurationEnv("RESPONSE_TTL", defaultResponseTTL)
	if err != nil {
		log.Errorf(err, "invalid RESPONSE_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    password,
		User:        user,
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		ResponseTTL: responseTTL,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnv("BUCKET_NAME"),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		UploadImagesLimit: 10,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultGroupID           = "recsys-cache-invalidator"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC environment variable is required")
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             topic,
		GroupID:           getEnvOrDefault("KAFKA_GROUP_ID", defaultGroupID),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadOpenAICfg() (*OpenAICfg, error) {
	const (
		defaultEmbeddingModel = "text-embedding-3-small"
		defaultChatModel      = "gpt-4o-mini"
		defaultTimeout        = 15 * time.Second
		defaultMaxConcurrent  = 4
		defaultMaxRetries     = 3
	)

	apiKey := getEnv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	timeout, err := parseDurationEnv("OPENAI_TIMEOUT", defaultTimeout)
	if err != nil {
		return nil, e.Wrap("OPENAI_TIMEOUT", err)
	}

	maxConcurrent, err := parseIntEnv("OPENAI_MAX_CONCURRENT", defaultMaxConcurrent)
	if err != nil {
		return nil, e.Wrap("OPENAI_MAX_CONCURRENT", err)
	}

	maxRetries, err := parseIntEnv("OPENAI_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, e.Wrap("OPENAI_MAX_RETRIES", err)
	}

	return &OpenAICfg{
		ApiKey:         apiKey,
		BaseURL:        getEnv("OPENAI_BASE_URL"),
		EmbeddingModel: getEnvOrDefault("OPENAI_EMBEDDING_MODEL", defaultEmbeddingModel),
		ChatModel:      getEnvOrDefault("OPENAI_CHAT_MODEL", defaultChatModel),
		Timeout:        timeout,
		MaxConcurrent:  maxConcurrent,
		MaxRetries:     maxRetries,
	}, nil
}

func loadMLServiceCfg(log logger.Logger) (*MLServiceCfg, error) {
	const (
		defaultBaseURL       = "http://ml-service:5001"
		defaultTimeout       = 30 * time.Second
		defaultMaxConcurrent = 8
		defaultMaxRetries    = 3
	)

	timeout, err := parseDurationEnv("ML_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid ML_TIMEOUT")
		return nil, err
	}

	maxConcurrent, err := parseIntEnv("ML_MAX_CONCURRENT", defaultMaxConcurrent)
	if err != nil {
		return nil, e.Wrap("ML_MAX_CONCURRENT", err)
	}

	maxRetries, err := parseIntEnv("ML_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, e.Wrap("ML_MAX_RETRIES", err)
	}

	return &MLServiceCfg{
		BaseURL:       getEnvOrDefault("ML_BASE_URL", defaultBaseURL),
		Timeout:       timeout,
		MaxConcurrent: maxConcurrent,
		MaxRetries:    maxRetries,
	}, nil
}

func loadCatalogCfg() (*CatalogCfg, error) {
	const (
		defaultTopN         = 9
		defaultMaxTopN      = 50
		defaultImageBaseURL = "/images"
	)

	defaultN, err := parseIntEnv("DEFAULT_TOP_N", defaultTopN)
	if err != nil {
		return nil, e.Wrap("DEFAULT_TOP_N", err)
	}

	maxN, err := parseIntEnv("MAX_TOP_N", defaultMaxTopN)
	if err != nil {
		return nil, e.Wrap("MAX_TOP_N", err)
	}

	return &CatalogCfg{
		DefaultTopN:  defaultN,
		MaxTopN:      maxN,
		ImageBaseURL: getEnvOrDefault("IMAGE_BASE_URL", defaultImageBaseURL),
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
