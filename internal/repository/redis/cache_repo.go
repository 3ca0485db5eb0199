package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/DRSN-tech/recsys-backend/internal/cfg"
	"github.com/DRSN-tech/recsys-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/recsys-backend/internal/usecase"
	"github.com/DRSN-tech/recsys-backend/pkg/clients"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	// responseKeyPattern покрывает все ключи кэша ответов сервиса.
	responseKeyPattern = "rec:*"
	filterOptionsKey   = "rec:filter_options"

	invalidateScanBatch = 100
)

// CacheRepo реализует кэш ответов рекомендаций поверх Redis.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ResponseConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ResponseConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetRecommendations возвращает закэшированный ответ или nil при промахе.
func (c *CacheRepo) GetRecommendations(ctx context.Context, key string) (*usecase.RecommendRes, error) {
	data, err := c.client.Client.Get(ctx, key).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.RecommendResRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed, key: %s: %v", key, e.Wrap(whereami.WhereAmI(), err))
		c.deleteQuietly(key)
		return nil, nil
	}

	return c.conv.ToUseCase(&model), nil
}

// SetRecommendations кэширует ответ рекомендаций с заданным TTL.
func (c *CacheRepo) SetRecommendations(ctx context.Context, key string, res *usecase.RecommendRes, ttl time.Duration) error {
	data, err := json.Marshal(c.conv.ToRedisModel(res))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if ttl <= 0 {
		ttl = c.cfg.ResponseTTL
	}

	if err := c.client.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetFilterOptions возвращает закэшированные опции фильтров или nil при промахе.
func (c *CacheRepo) GetFilterOptions(ctx context.Context) (*usecase.FilterOptionsRes, error) {
	data, err := c.client.Client.Get(ctx, filterOptionsKey).Bytes()
	if errors.Is(err, r.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.FilterOptionsRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed, key: %s: %v", filterOptionsKey, e.Wrap(whereami.WhereAmI(), err))
		c.deleteQuietly(filterOptionsKey)
		return nil, nil
	}

	return c.conv.OptionsToUseCase(&model), nil
}

// SetFilterOptions кэширует опции фильтров с заданным TTL.
func (c *CacheRepo) SetFilterOptions(ctx context.Context, res *usecase.FilterOptionsRes, ttl time.Duration) error {
	data, err := json.Marshal(c.conv.OptionsToRedisModel(res))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if ttl <= 0 {
		ttl = c.cfg.ResponseTTL
	}

	if err := c.client.Client.Set(ctx, filterOptionsKey, data, ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// InvalidateResponses удаляет все ключи кэша ответов через SCAN,
// чтобы не блокировать Redis на больших пространствах ключей.
func (c *CacheRepo) InvalidateResponses(ctx context.Context) error {
	var cursor uint64
	deleted := 0

	for {
		keys, next, err := c.client.Client.Scan(ctx, cursor, responseKeyPattern, invalidateScanBatch).Result()
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		if len(keys) > 0 {
			if err := c.client.Client.Del(ctx, keys...).Err(); err != nil {
				return e.Wrap(whereami.WhereAmI(), err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Infof("Response cache invalidated, keys removed: %d", deleted)

	return nil
}

func (c *CacheRepo) deleteQuietly(key string) {
	if err := c.client.Client.Del(context.Background(), key).Err(); err != nil {
		c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}
