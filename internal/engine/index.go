package engine

import (
	"sort"

	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/viant/vec/search"
)

// knnHit — одна позиция результата поиска: локальная позиция вектора
// в индексе и расстояние до запроса.
type knnHit struct {
	position int
	distance float32
}

// flatIndex — плоский точный kNN-индекс фиксированной размерности
// по евклидову расстоянию. Подходит для каталогов до десятков тысяч
// товаров: полный перебор с SIMD-ядрами расстояний даёт точный
// результат без обучения структуры.
type flatIndex struct {
	dim     int
	vectors []search.Float32s
}

func newFlatIndex(dim int) *flatIndex {
	return &flatIndex{dim: dim}
}

// add добавляет вектор в индекс. Размерность проверяется строго:
// индекс с разнородными векторами бесполезен.
func (ix *flatIndex) add(v []float32) error {
	if len(v) != ix.dim {
		return e.ErrDimensionMismatch
	}

	ix.vectors = append(ix.vectors, search.Float32s(v))

	return nil
}

func (ix *flatIndex) len() int {
	return len(ix.vectors)
}

// knn возвращает k ближайших векторов в порядке возрастания расстояния.
// k усекается до размера индекса; равные расстояния упорядочиваются
// по возрастанию позиции, чтобы выдача была детерминированной.
func (ix *flatIndex) knn(query []float32, k int) ([]knnHit, error) {
	if len(query) != ix.dim {
		return nil, e.ErrDimensionMismatch
	}

	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}
	if k <= 0 {
		return []knnHit{}, nil
	}

	q := search.Float32s(query)

	hits := make([]knnHit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = knnHit{position: i, distance: q.EuclideanDistance(v)}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].distance != hits[b].distance {
			return hits[a].distance < hits[b].distance
		}
		return hits[a].position < hits[b].position
	})

	return hits[:k], nil
}
