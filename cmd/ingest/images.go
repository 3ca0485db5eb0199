package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DRSN-tech/recsys-backend/internal/usecase"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

var imageMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// readProductImages обходит каталог изображений: каждая поддиректория — код
// товара, внутри — файлы изображений. На товар берётся не более limit файлов
// в алфавитном порядке, файлы с неизвестным расширением пропускаются.
func readProductImages(dir string, limit int) ([]usecase.ImageUpload, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	uploads := make([]usecase.ImageUpload, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		code := entry.Name()

		files, err := os.ReadDir(filepath.Join(dir, code))
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		names := make([]string, 0, len(files))
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			if _, ok := imageMimeTypes[strings.ToLower(filepath.Ext(file.Name()))]; !ok {
				continue
			}
			names = append(names, file.Name())
		}
		sort.Strings(names)

		if limit > 0 && len(names) > limit {
			names = names[:limit]
		}

		for _, name := range names {
			data, err := os.ReadFile(filepath.Join(dir, code, name))
			if err != nil {
				return nil, e.Wrap(whereami.WhereAmI(), err)
			}

			uploads = append(uploads, usecase.ImageUpload{
				Code:     code,
				FileName: name,
				MimeType: imageMimeTypes[strings.ToLower(filepath.Ext(name))],
				Data:     data,
			})
		}
	}

	return uploads, nil
}
