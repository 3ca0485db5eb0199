package engine

import (
	"github.com/DRSN-tech/recsys-backend/pkg/e"
)

// Match — результат ранжирования одного кандидата: локальный индекс товара
// в каталоге (уже после обратного отображения из временного индекса),
// расстояние до запроса и производная от него оценка схожести.
type Match struct {
	LocalIndex int
	Distance   float64
	Similarity float64
}

// Rank ищет k ближайших кандидатов к вектору запроса и переводит позиции
// временного индекса обратно в локальные индексы каталога.
// Схожесть монотонно убывает с расстоянием: similarity = 1 / (1 + distance),
// то есть лежит в (0, 1] и равна 1 только при нулевом расстоянии.
func (c *CandidateIndex) Rank(query []float32, k int) ([]Match, error) {
	hits, err := c.index.knn(query, k)
	if err != nil {
		return nil, e.Wrap("engine.Rank", err)
	}

	matches := make([]Match, 0, len(hits))
	for _, h := range hits {
		d := float64(h.distance)
		matches = append(matches, Match{
			LocalIndex: c.localIDs[h.position],
			Distance:   d,
			Similarity: 1.0 / (1.0 + d),
		})
	}

	return matches, nil
}
