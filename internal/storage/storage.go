// Package storage хранит загруженные иконки категорий: на диске или в S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// ErrTooLarge файл больше допустимого размера.
var ErrTooLarge = errors.New("storage: файл превышает допустимый размер")

// IconStorage сохраняет файл иконки и возвращает ссылку на него.
type IconStorage interface {
	Save(ctx context.Context, categoryID, originalName, contentType string, r io.Reader) (string, int64, error)
	URL(ctx context.Context, ref string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// iconKey путь иконки внутри хранилища: icons/<категория>/<время>_<имя>.
func iconKey(categoryID, originalName string, now time.Time) string {
	return fmt.Sprintf("icons/%s/%d_%s", sanitizeFilename(categoryID), now.UnixNano(), sanitizeFilename(originalName))
}

// sanitizeFilename удаляет потенциально опасные символы.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." {
		name = "icon"
	}
	return name
}

// readLimited читает не больше max байт. Больший поток даёт ErrTooLarge.
func readLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("storage: ошибка чтения файла: %w", err)
	}
	if int64(len(data)) > max {
		return nil, ErrTooLarge
	}
	return data, nil
}
