package engine

import (
	"context"
	"strings"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
)

// Embedder переводит текст запроса в вектор той же модели, которой
// эмбеддился каталог.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// fallbackQuery — нейтральный текст запроса, когда пользователь не задал
// ни одного текстового предпочтения. Даёт осмысленную выдачу «в среднем»
// вместо ошибки.
const fallbackQuery = "clothing product"

// Человекочитаемые метки полей предпочтений. Порядок фиксирован:
// один и тот же Preference всегда даёт один и тот же текст запроса.
var queryFields = []struct {
	label string
	value func(*domain.Preference) string
}{
	{"Skin Tone Category", func(p *domain.Preference) string { return p.SkinTone }},
	{"Occasion", func(p *domain.Preference) string { return p.Occasion }},
	{"Product Type", func(p *domain.Preference) string { return p.ProductType }},
	{"Description", func(p *domain.Preference) string { return p.Description }},
}

// QueryText собирает текст запроса из заданных предпочтений в виде
// "Метка: значение", соединённых через ", ".
func QueryText(pref *domain.Preference) string {
	parts := make([]string, 0, len(queryFields))
	for _, f := range queryFields {
		if v := strings.TrimSpace(f.value(pref)); v != "" {
			parts = append(parts, f.label+": "+v)
		}
	}

	if len(parts) == 0 {
		return fallbackQuery
	}

	return strings.Join(parts, ", ")
}
