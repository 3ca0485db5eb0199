package engine

import (
	"context"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
)

// Engine — конвейер рекомендаций: фильтрация каталога, временный индекс
// по кандидатам, векторизация предпочтений и ранжирование по расстоянию.
// Состояние после конструирования неизменяемо, методы безопасны для
// конкурентных запросов.
type Engine struct {
	store    *Store
	embedder Embedder
	logger   logger.Logger
}

func New(store *Store, embedder Embedder, logger logger.Logger) *Engine {
	return &Engine{
		store:    store,
		embedder: embedder,
		logger:   logger,
	}
}

// Store возвращает каталог движка.
func (eng *Engine) Store() *Store {
	return eng.store
}

// FilterOptions возвращает доступные значения фильтров каталога.
func (eng *Engine) FilterOptions() map[string][]string {
	return eng.store.FilterOptions()
}

// Recommend выполняет полный цикл подбора: фильтры -> кандидаты ->
// вектор запроса -> k ближайших. Пустое множество кандидатов возвращается
// как пустая выдача без ошибки: для пользователя это «ничего не нашлось»,
// а не сбой сервиса. Вектор запроса считается только после фильтрации,
// чтобы не дёргать модель впустую.
func (eng *Engine) Recommend(ctx context.Context, pref *domain.Preference, k int) ([]Match, error) {
	candidates, err := eng.store.ApplyFilters(pref.Tier, pref.FacetValues())
	if err != nil {
		return nil, e.Wrap("engine.Recommend", err)
	}

	if len(candidates) == 0 {
		eng.logger.Debugf("engine: empty candidate set, tier=%s", pref.Tier)
		return []Match{}, nil
	}

	ci, err := eng.store.BuildCandidateIndex(candidates)
	if err != nil {
		return nil, e.Wrap("engine.Recommend", err)
	}

	text := QueryText(pref)
	query, err := eng.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, e.Wrap("engine.Recommend", err)
	}

	if len(query) != eng.store.Dim() {
		return nil, e.Wrap("engine.Recommend", e.ErrDimensionMismatch)
	}

	matches, err := ci.Rank(query, k)
	if err != nil {
		return nil, e.Wrap("engine.Recommend", err)
	}

	eng.logger.Debugf("engine: tier=%s candidates=%d matches=%d", pref.Tier, ci.Len(), len(matches))

	return matches, nil
}
