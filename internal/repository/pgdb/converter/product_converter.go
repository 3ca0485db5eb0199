package converter

import (
	"time"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
)

// ProductModel — строка таблицы products.
type ProductModel struct {
	ID          int64
	Code        string
	Name        string
	Description string
	Price       int64
	Color       string
	ProductType string
	Occasion    string
	SkinTone    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	IsArchived  bool
}

type ProductConverter struct{}

func (ProductConverter) ToEntity(m *ProductModel) domain.Product {
	return domain.Product{
		ID:          m.ID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Color:       m.Color,
		ProductType: m.ProductType,
		Occasion:    m.Occasion,
		SkinTone:    m.SkinTone,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   &m.UpdatedAt,
		IsArchived:  m.IsArchived,
	}
}

func (c ProductConverter) ToArrEntity(models []ProductModel) []domain.Product {
	products := make([]domain.Product, 0, len(models))
	for i := range models {
		products = append(products, c.ToEntity(&models[i]))
	}

	return products
}
