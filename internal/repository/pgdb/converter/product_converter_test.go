package converter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductConverter_ToEntity(t *testing.T) {
	now := time.Now()
	m := ProductModel{
		ID:          7,
		Code:        "P001",
		Name:        "Linen Shirt",
		Description: "light cotton",
		Price:       1999_90,
		Color:       "white",
		ProductType: "shirt",
		Occasion:    "casual",
		SkinTone:    "warm",
		CreatedAt:   now,
		UpdatedAt:   now,
		IsArchived:  false,
	}

	p := ProductConverter{}.ToEntity(&m)

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "P001", p.Code)
	assert.Equal(t, "Linen Shirt", p.Name)
	assert.Equal(t, int64(1999_90), p.Price)
	assert.Equal(t, "shirt", p.ProductType)
	assert.Equal(t, now, p.CreatedAt)
	require.NotNil(t, p.UpdatedAt)
	assert.Equal(t, now, *p.UpdatedAt)
	assert.False(t, p.IsArchived)
}

func TestProductConverter_ToArrEntity(t *testing.T) {
	models := []ProductModel{
		{ID: 1, Code: "P001", Name: "Linen Shirt"},
		{ID: 2, Code: "P002", Name: "Evening Dress"},
	}

	products := ProductConverter{}.ToArrEntity(models)

	require.Len(t, products, 2)
	assert.Equal(t, "P001", products[0].Code)
	assert.Equal(t, "P002", products[1].Code)

	assert.Empty(t, ProductConverter{}.ToArrEntity(nil))
}
