package engine

import (
	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
)

// ApplyFilters возвращает локальные индексы товаров, прошедших обязательный
// ценовой диапазон и все заданные фасеты. Индексы строго возрастают,
// поэтому порядок кандидатов детерминирован от запуска к запуску.
// Фасеты, отсутствующие в схеме каталога, молча игнорируются; пустой
// результат — валидный ответ, а не ошибка.
func (s *Store) ApplyFilters(tier domain.PriceTier, facets map[domain.Facet]string) ([]int, error) {
	if !tier.Valid() {
		return nil, e.ErrInvalidPriceTier
	}

	candidates := make([]int, 0, len(s.products))

	for i := range s.products {
		if !tier.Contains(s.products[i].Price) {
			continue
		}

		if !s.matchesFacets(i, facets) {
			continue
		}

		candidates = append(candidates, i)
	}

	return candidates, nil
}

func (s *Store) matchesFacets(i int, facets map[domain.Facet]string) bool {
	for f, want := range facets {
		if want == "" {
			continue
		}
		if !s.HasFacet(f) {
			continue
		}
		if s.products[i].FacetValue(f) != want {
			return false
		}
	}

	return true
}
