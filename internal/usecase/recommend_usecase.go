package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/internal/engine"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
)

const (
	// emptyResultMessage возвращается пользователю при пустой выдаче.
	emptyResultMessage = "No products found matching your preferences."
	// fallbackExplanation подставляется, когда генерация объяснения
	// не уложилась в таймаут или завершилась ошибкой.
	fallbackExplanation = "This product matches your selected filters."

	// backgroundCacheTimeout ограничивает фоновую запись ответа в кэш.
	backgroundCacheTimeout = 2 * time.Second
)

// RecommendOptions — настройки подбора, прокинутые из конфигурации.
type RecommendOptions struct {
	DefaultTopN    int
	MaxTopN        int
	ImageBaseURL   string
	CacheTTL       time.Duration
	ExplainTimeout time.Duration
	ExplainWorkers int
}

// RecommendUseCase реализует бизнес-логику подбора рекомендаций:
// нормализация запроса, кэш ответов, движок и сборка выдачи с объяснениями.
type RecommendUseCase struct {
	engine    *engine.Engine
	cacheRepo CacheRepository
	explainer Explainer
	logger    logger.Logger
	opts      RecommendOptions
}

func NewRecommendUC(
	engine *engine.Engine,
	cacheRepo CacheRepository,
	explainer Explainer,
	logger logger.Logger,
	opts RecommendOptions,
) *RecommendUseCase {
	return &RecommendUseCase{
		engine:    engine,
		cacheRepo: cacheRepo,
		explainer: explainer,
		logger:    logger,
		opts:      opts,
	}
}

// Recommend подбирает топ-N товаров под предпочтения пользователя.
// Одинаковые запросы отдаются из кэша; промах кэша никогда не роняет запрос.
func (r *RecommendUseCase) Recommend(ctx context.Context, req *RecommendReq) (*RecommendRes, error) {
	const op = "RecommendUseCase.Recommend"

	tier, err := domain.NormalizeTier(req.Budget)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	topN, err := r.resolveTopN(req.TopN)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	key := recommendCacheKey(tier, req, topN)
	if cached, err := r.cacheRepo.GetRecommendations(ctx, key); err != nil {
		r.logger.Warnf("Failed to read recommendations cache: %v", e.Wrap(op, err))
	} else if cached != nil {
		r.logger.Debugf("Recommendations cache hit, key: %s", key)
		return cached, nil
	}

	pref := &domain.Preference{
		Tier:        tier,
		SkinTone:    strings.TrimSpace(req.SkinTone),
		Occasion:    strings.TrimSpace(req.Occasion),
		ProductType: strings.TrimSpace(req.ProductType),
		Description: strings.TrimSpace(req.Description),
	}

	matches, err := r.engine.Recommend(ctx, pref, topN)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var res *RecommendRes
	if len(matches) == 0 {
		res = NewRecommendRes([]RecommendationInfo{}, emptyResultMessage)
	} else {
		res = NewRecommendRes(r.assemble(ctx, pref, matches), "")
	}

	// Фоновое сохранение ответа в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundCacheTimeout)
		defer cancel()

		if err := r.cacheRepo.SetRecommendations(bgCtx, key, res, r.opts.CacheTTL); err != nil {
			r.logger.Warnf("Failed to cache recommendations in background: %v", e.Wrap(op, err))
		}
	}()

	return res, nil
}

// FilterOptions возвращает доступные значения фильтров каталога.
func (r *RecommendUseCase) FilterOptions(ctx context.Context) (*FilterOptionsRes, error) {
	const op = "RecommendUseCase.FilterOptions"

	if cached, err := r.cacheRepo.GetFilterOptions(ctx); err != nil {
		r.logger.Warnf("Failed to read filter options cache: %v", e.Wrap(op, err))
	} else if cached != nil {
		return cached, nil
	}

	res := NewFilterOptionsRes(r.engine.FilterOptions())

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundCacheTimeout)
		defer cancel()

		if err := r.cacheRepo.SetFilterOptions(bgCtx, res, r.opts.CacheTTL); err != nil {
			r.logger.Warnf("Failed to cache filter options in background: %v", e.Wrap(op, err))
		}
	}()

	return res, nil
}

// assemble собирает DTO выдачи и параллельно генерирует объяснения.
// Генерация ограничена воркерами и общим таймаутом; любая неудача
// заменяется нейтральной заглушкой, выдача из-за объяснений не ломается.
func (r *RecommendUseCase) assemble(ctx context.Context, pref *domain.Preference, matches []engine.Match) []RecommendationInfo {
	infos := make([]RecommendationInfo, len(matches))
	for i, m := range matches {
		product := r.engine.Store().Product(m.LocalIndex)
		infos[i] = NewRecommendationInfo(product, r.imageURL(product.Code), m.Similarity, fallbackExplanation)
	}

	if r.explainer == nil {
		return infos
	}

	explainCtx, cancel := context.WithTimeout(ctx, r.opts.ExplainTimeout)
	defer cancel()

	workers := r.opts.ExplainWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := range infos {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, product domain.Product) {
			defer wg.Done()
			defer func() { <-sem }()

			explanation, err := r.explainer.Explain(explainCtx, pref, product)
			if err != nil {
				r.logger.Warnf("Failed to explain recommendation, code: %s, error: %v", product.Code, err)
				return
			}

			infos[i].Explanation = explanation
		}(i, r.engine.Store().Product(matches[i].LocalIndex))
	}
	wg.Wait()

	return infos
}

// resolveTopN применяет дефолт и верхнюю границу размера выдачи.
func (r *RecommendUseCase) resolveTopN(topN int) (int, error) {
	if topN < 0 {
		return 0, e.ErrInvalidTopN
	}

	if topN == 0 {
		return r.opts.DefaultTopN, nil
	}

	if topN > r.opts.MaxTopN {
		return r.opts.MaxTopN, nil
	}

	return topN, nil
}

func (r *RecommendUseCase) imageURL(code string) string {
	return fmt.Sprintf("%s/%s/1.jpg", strings.TrimRight(r.opts.ImageBaseURL, "/"), code)
}

// recommendCacheKey строит детерминированный ключ кэша из нормализованного запроса.
func recommendCacheKey(tier domain.PriceTier, req *RecommendReq, topN int) string {
	canonical := strings.Join([]string{
		string(tier),
		strings.ToLower(strings.TrimSpace(req.SkinTone)),
		strings.ToLower(strings.TrimSpace(req.Occasion)),
		strings.ToLower(strings.TrimSpace(req.ProductType)),
		strings.ToLower(strings.TrimSpace(req.Description)),
		strconv.Itoa(topN),
	}, "|")

	sum := sha1.Sum([]byte(canonical))

	return "rec:response:" + hex.EncodeToString(sum[:])
}
