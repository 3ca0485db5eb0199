package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/DRSN-tech/recsys-backend/internal/usecase"
)

// Канонические имена колонок каталога. Заголовки CSV нормализуются
// (нижний регистр, пробелы в подчёркивания), алиасы сведены к одному имени.
var columnAliases = map[string]string{
	"code":                "code",
	"id":                  "code",
	"product_code":        "code",
	"name":                "name",
	"product_name":        "name",
	"description":         "description",
	"product_description": "description",
	"price":               "price",
	"color":               "color",
	"colour":              "color",
	"product_type":        "product_type",
	"type":                "product_type",
	"occasion":            "occasion",
	"skin_tone":           "skin_tone",
	"skin_tone_category":  "skin_tone",
}

// readCatalogCSV читает CSV каталога в строки ингеста.
// Порядок колонок произвольный, лишние колонки игнорируются.
func readCatalogCSV(path string) ([]usecase.IngestRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("catalog CSV has no data rows: %s", path)
	}

	columns := make(map[string]int)
	for i, header := range records[0] {
		normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
		if canonical, ok := columnAliases[normalized]; ok {
			columns[canonical] = i
		}
	}

	for _, required := range []string{"code", "name"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("catalog CSV is missing required column %q", required)
		}
	}

	rows := make([]usecase.IngestRow, 0, len(records)-1)
	for _, record := range records[1:] {
		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		rows = append(rows, usecase.IngestRow{
			Code:        field("code"),
			Name:        field("name"),
			Description: field("description"),
			Price:       field("price"),
			Color:       field("color"),
			ProductType: field("product_type"),
			Occasion:    field("occasion"),
			SkinTone:    field("skin_tone"),
		})
	}

	return rows, nil
}
