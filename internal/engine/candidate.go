package engine

import (
	"github.com/DRSN-tech/recsys-backend/pkg/e"
)

// CandidateIndex — одноразовый индекс над подмножеством каталога.
// Строится на каждый запрос и отбрасывается после ранжирования:
// при размерах отфильтрованных подмножеств это дешевле, чем поддерживать
// отдельный индекс на каждую комбинацию фильтров.
type CandidateIndex struct {
	index    *flatIndex
	localIDs []int // позиция в индексе -> локальный индекс каталога
}

// BuildCandidateIndex строит временный индекс по локальным индексам каталога.
// Пустое множество кандидатов — e.ErrEmptyCandidateSet: индекс без векторов
// искать не в чем.
func (s *Store) BuildCandidateIndex(ids []int) (*CandidateIndex, error) {
	if len(ids) == 0 {
		return nil, e.ErrEmptyCandidateSet
	}

	ix := newFlatIndex(s.dim)
	localIDs := make([]int, 0, len(ids))

	for _, id := range ids {
		if err := ix.add(s.vectors[id]); err != nil {
			return nil, e.Wrap("engine.BuildCandidateIndex", err)
		}
		localIDs = append(localIDs, id)
	}

	return &CandidateIndex{
		index:    ix,
		localIDs: localIDs,
	}, nil
}

// Len возвращает число кандидатов в индексе.
func (c *CandidateIndex) Len() int {
	return c.index.len()
}
