package domain

import (
	"math"
	"strings"

	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// PriceTier — обязательный ценовой диапазон запроса рекомендаций.
type PriceTier string

const (
	TierBudget   PriceTier = "budget"
	TierMidRange PriceTier = "mid_range"
	TierPremium  PriceTier = "premium"
)

// PriceTiers — фиксированный порядок диапазонов для выдачи опций фильтров.
var PriceTiers = []PriceTier{TierBudget, TierMidRange, TierPremium}

// Границы диапазонов в минорных единицах валюты каталога.
// Полуоткрытые интервалы: budget [0, 4000), mid_range [4000, 10000), premium [10000, +inf).
const (
	budgetUpperBound   int64 = 4000_00
	midRangeUpperBound int64 = 10000_00
)

// Пороговые значения для приведения «сырого» числового бюджета к диапазону.
const (
	rawBudgetThreshold   int64 = 5000_00
	rawMidRangeThreshold int64 = 10000_00
)

// Valid сообщает, является ли значение одним из трёх известных диапазонов.
func (t PriceTier) Valid() bool {
	switch t {
	case TierBudget, TierMidRange, TierPremium:
		return true
	}
	return false
}

// Bounds возвращает полуоткрытый интервал [min, max) диапазона в минорных единицах.
func (t PriceTier) Bounds() (min int64, max int64) {
	switch t {
	case TierBudget:
		return 0, budgetUpperBound
	case TierMidRange:
		return budgetUpperBound, midRangeUpperBound
	default:
		return midRangeUpperBound, math.MaxInt64
	}
}

// Contains проверяет попадание цены (в минорных единицах) в диапазон.
// Товары без распознанной цены не попадают ни в один диапазон.
func (t PriceTier) Contains(price int64) bool {
	if price <= 0 {
		return false
	}

	min, max := t.Bounds()
	return price >= min && price < max
}

// NormalizeTier приводит значение бюджета из запроса к ценовому диапазону.
// Принимает имя диапазона, фразы вида "under 4000"/"above 10000" и сырое число
// (в целых единицах валюты); всё остальное — e.ErrInvalidPriceTier.
// Единственная точка нормализации: фильтр всегда получает уже готовый диапазон.
func NormalizeTier(raw string) (PriceTier, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", e.ErrInvalidPriceTier
	}

	switch s {
	case string(TierBudget), "under 4000":
		return TierBudget, nil
	case string(TierMidRange), "mid-range", "midrange", "4000-10000":
		return TierMidRange, nil
	case string(TierPremium), "above 10000":
		return TierPremium, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return "", e.ErrInvalidPriceTier
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	switch {
	case cents <= rawBudgetThreshold:
		return TierBudget, nil
	case cents <= rawMidRangeThreshold:
		return TierMidRange, nil
	default:
		return TierPremium, nil
	}
}

// Preference — предпочтения пользователя на один запрос рекомендаций.
// Диапазон цены обязателен, фасеты опциональны (пустая строка — не задан).
type Preference struct {
	Tier        PriceTier
	SkinTone    string
	Occasion    string
	ProductType string
	Description string
}

func NewPreference(tier PriceTier, skinTone, occasion, productType string) *Preference {
	return &Preference{
		Tier:        tier,
		SkinTone:    skinTone,
		Occasion:    occasion,
		ProductType: productType,
	}
}

// FacetValues возвращает только заданные фасеты предпочтений.
func (p *Preference) FacetValues() map[Facet]string {
	values := make(map[Facet]string, len(Facets))
	if p.SkinTone != "" {
		values[FacetSkinTone] = p.SkinTone
	}
	if p.Occasion != "" {
		values[FacetOccasion] = p.Occasion
	}
	if p.ProductType != "" {
		values[FacetProductType] = p.ProductType
	}

	return values
}
