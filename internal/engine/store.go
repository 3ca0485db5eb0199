package engine

import (
	"sort"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
)

// Store — загруженный в память каталог: параллельные списки товаров и их
// эмбеддингов в стабильном порядке загрузки (локальный индекс 0..N-1).
// После конструирования Store неизменяем и безопасен для конкурентного чтения.
type Store struct {
	products []domain.Product
	vectors  [][]float32
	dim      int
	facets   map[domain.Facet]struct{} // схема доступных фасетов, вычисляется один раз
}

// NewStore собирает каталог из товаров и векторов в совпадающем порядке.
// Пустой каталог — e.ErrStoreNotFound (процесс не должен стартовать без данных),
// расхождение длин — e.ErrProductVectorMismatch, разнородные размерности —
// e.ErrDimensionMismatch.
func NewStore(products []domain.Product, vectors [][]float32) (*Store, error) {
	if len(products) == 0 || len(vectors) == 0 {
		return nil, e.ErrStoreNotFound
	}

	if len(products) != len(vectors) {
		return nil, e.ErrProductVectorMismatch
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, e.ErrVectorEmbeddingEmpty
	}

	for _, v := range vectors {
		if len(v) != dim {
			return nil, e.ErrDimensionMismatch
		}
	}

	return &Store{
		products: products,
		vectors:  vectors,
		dim:      dim,
		facets:   detectFacets(products),
	}, nil
}

// detectFacets строит дескриптор схемы: фасет доступен, если хотя бы один
// товар каталога имеет его значение. Заменяет точечные проверки
// «а есть ли такая колонка» по всему коду.
func detectFacets(products []domain.Product) map[domain.Facet]struct{} {
	facets := make(map[domain.Facet]struct{}, len(domain.Facets))
	for _, f := range domain.Facets {
		for i := range products {
			if products[i].FacetValue(f) != "" {
				facets[f] = struct{}{}
				break
			}
		}
	}

	return facets
}

func (s *Store) Len() int {
	return len(s.products)
}

// Dim возвращает размерность эмбеддингов каталога.
func (s *Store) Dim() int {
	return s.dim
}

// Product возвращает товар по локальному индексу.
func (s *Store) Product(i int) domain.Product {
	return s.products[i]
}

// HasFacet сообщает, представлен ли фасет в схеме каталога.
func (s *Store) HasFacet(f domain.Facet) bool {
	_, ok := s.facets[f]
	return ok
}

// FilterOptions возвращает отсортированные уникальные значения каждого
// доступного фасета плюс фиксированный список ценовых диапазонов.
func (s *Store) FilterOptions() map[string][]string {
	options := make(map[string][]string, len(s.facets)+1)

	for _, f := range domain.Facets {
		if !s.HasFacet(f) {
			continue
		}

		seen := make(map[string]struct{})
		for i := range s.products {
			if v := s.products[i].FacetValue(f); v != "" {
				seen[v] = struct{}{}
			}
		}

		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)

		options[string(f)] = values
	}

	tiers := make([]string, 0, len(domain.PriceTiers))
	for _, t := range domain.PriceTiers {
		tiers = append(tiers, string(t))
	}
	options["price_range"] = tiers

	return options
}
