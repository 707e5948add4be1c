package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"
)

// LocalStorage хранит иконки в каталоге на диске, раздаются через /media.
type LocalStorage struct {
	rootPath       string
	publicPrefix   string
	maxUploadBytes int64
}

// NewLocalStorage создаёт файловое хранилище.
func NewLocalStorage(rootPath, publicPrefix string, maxUploadMB int64) (*LocalStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &LocalStorage{
		rootPath:       rootPath,
		publicPrefix:   publicPrefix,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

var _ IconStorage = (*LocalStorage)(nil)

// Save сохраняет файл и возвращает относительный путь.
func (s *LocalStorage) Save(ctx context.Context, categoryID, originalName, _ string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	relative := iconKey(categoryID, originalName, time.Now())
	targetPath := filepath.Join(s.rootPath, filepath.FromSlash(relative))
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать каталог категории: %w", err)
	}

	tempPath := targetPath + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limitedReader := io.LimitedReader{R: r, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limitedReader)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", 0, ErrTooLarge
	}

	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return relative, written, nil
}

// URL публичный путь файла.
func (s *LocalStorage) URL(_ context.Context, ref string) (string, error) {
	return path.Join(s.publicPrefix, ref), nil
}

// Delete удаляет файл из хранилища.
func (s *LocalStorage) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, filepath.FromSlash(ref))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}
