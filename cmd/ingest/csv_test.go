package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestReadCatalogCSV_SourceHeaders(t *testing.T) {
	path := writeCSV(t,
		"ID,Product Name,Product Description,Price,Color,Product Type,Occasion,Skin Tone Category\n"+
			"ACA231001,Linen Shirt,light cotton for summer,1999.90,White,Shirt,Casual,Warm\n"+
			"ACA231002,Evening Dress,,3000,Black,Dress,Formal,Cool\n")

	rows, err := readCatalogCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ACA231001", rows[0].Code)
	assert.Equal(t, "Linen Shirt", rows[0].Name)
	assert.Equal(t, "light cotton for summer", rows[0].Description)
	assert.Equal(t, "1999.90", rows[0].Price)
	assert.Equal(t, "White", rows[0].Color)
	assert.Equal(t, "Shirt", rows[0].ProductType)
	assert.Equal(t, "Casual", rows[0].Occasion)
	assert.Equal(t, "Warm", rows[0].SkinTone)

	assert.Equal(t, "ACA231002", rows[1].Code)
	assert.Empty(t, rows[1].Description)
}

func TestReadCatalogCSV_AliasHeaders(t *testing.T) {
	path := writeCSV(t,
		"product_code,name,description,price,colour,type,occasion,skin_tone\n"+
			"P001,Plain Tee,basic,500,Grey,T-Shirt,Casual,Neutral\n")

	rows, err := readCatalogCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "P001", rows[0].Code)
	assert.Equal(t, "Grey", rows[0].Color)
	assert.Equal(t, "T-Shirt", rows[0].ProductType)
}

func TestReadCatalogCSV_MissingRequiredColumn(t *testing.T) {
	path := writeCSV(t,
		"Product Description,Price\n"+
			"something,100\n")

	_, err := readCatalogCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required column")
}

func TestReadCatalogCSV_NoDataRows(t *testing.T) {
	path := writeCSV(t, "ID,Product Name\n")

	_, err := readCatalogCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}
