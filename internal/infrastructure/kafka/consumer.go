package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/DRSN-tech/recsys-backend/internal/cfg"
	"github.com/DRSN-tech/recsys-backend/internal/usecase"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// invalidateTimeout ограничивает обработку одного события.
const invalidateTimeout = 10 * time.Second

// CacheInvalidator слушает события каталога и сбрасывает кэш ответов.
// Несколько инстансов сервиса делят одну consumer group: событие
// обрабатывает один из них, остальным кэш сбросит Redis.
type CacheInvalidator struct {
	reader    *kafka.Reader
	cacheRepo usecase.CacheRepository
	logger    logger.Logger
	stop      chan struct{}
	wg        sync.WaitGroup
}

func NewCacheInvalidator(cfg *cfg.KafkaCfg, cacheRepo usecase.CacheRepository, logger logger.Logger) *CacheInvalidator {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		CommitInterval: time.Second,
	})

	return &CacheInvalidator{
		reader:    reader,
		cacheRepo: cacheRepo,
		logger:    logger,
		stop:      make(chan struct{}),
	}
}

func (c *CacheInvalidator) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx)
	}()
}

func (c *CacheInvalidator) Stop() {
	close(c.stop)
	if err := c.reader.Close(); err != nil {
		c.logger.Warnf("Kafka reader close failed: %v", err)
	}
	c.wg.Wait()
}

func (c *CacheInvalidator) run(ctx context.Context) {
	const op = "CacheInvalidator.run"

	for {
		select {
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return
			}

			c.logger.Warnf("Kafka read failed: %v", e.Wrap(op, err))
			continue
		}

		c.handle(ctx, msg)
	}
}

func (c *CacheInvalidator) handle(ctx context.Context, msg kafka.Message) {
	const op = "CacheInvalidator.handle"

	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		c.logger.Warnf("Malformed catalog event, offset: %d: %v", msg.Offset, e.Wrap(op, err))
		return
	}

	if envelope.EventType != eventTypeCatalogRebuilt {
		c.logger.Debugf("Skipping event, type: %s", envelope.EventType)
		return
	}

	handleCtx, cancel := context.WithTimeout(ctx, invalidateTimeout)
	defer cancel()

	if err := c.cacheRepo.InvalidateResponses(handleCtx); err != nil {
		c.logger.Warnf("Failed to invalidate cache on catalog event: %v", e.Wrap(op, err))
		return
	}

	c.logger.Infof("Cache invalidated after catalog rebuild, event_id: %s, products: %d",
		envelope.EventID, envelope.Payload.Products)
}
