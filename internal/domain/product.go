package domain

import "time"

// Facet — имя опционального категориального атрибута каталога.
type Facet string

const (
	FacetSkinTone    Facet = "skin_tone"
	FacetOccasion    Facet = "occasion"
	FacetProductType Facet = "product_type"
)

// Facets — фиксированный порядок фасетов, используемый при построении
// текста эмбеддинга и выдаче опций фильтров.
var Facets = []Facet{FacetSkinTone, FacetOccasion, FacetProductType}

// Product описывает неизменяемую запись каталога.
// Опциональные фасеты хранятся пустой строкой, если каталог их не содержит.
type Product struct {
	ID          int64
	Code        string // внешний идентификатор товара (например, ACA231001)
	Name        string
	Description string
	Price       int64 // Цена хранится в копейках; 0 — цена не распознана
	Color       string
	ProductType string
	Occasion    string
	SkinTone    string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	IsArchived  bool
}

func NewProduct(code, name, description string, price int64, color string) *Product {
	return &Product{
		Code:        code,
		Name:        name,
		Description: description,
		Price:       price,
		Color:       color,
	}
}

// FacetValue возвращает значение фасета товара, пустая строка — значение отсутствует.
func (p *Product) FacetValue(f Facet) string {
	switch f {
	case FacetSkinTone:
		return p.SkinTone
	case FacetOccasion:
		return p.Occasion
	case FacetProductType:
		return p.ProductType
	default:
		return ""
	}
}

// HasPrice сообщает, удалось ли распознать цену товара при загрузке каталога.
// Товары без цены исключаются из всех ценовых диапазонов.
func (p *Product) HasPrice() bool {
	return p.Price > 0
}
