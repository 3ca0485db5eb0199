package domain

// Recommendation — итоговая позиция выдачи: товар, оценка схожести
// и (опционально) текстовое объяснение.
type Recommendation struct {
	Product     Product
	Similarity  float64 // (0, 1] для евклидовой метрики
	Explanation string
}

func NewRecommendation(product Product, similarity float64, explanation string) Recommendation {
	return Recommendation{
		Product:     product,
		Similarity:  similarity,
		Explanation: explanation,
	}
}
