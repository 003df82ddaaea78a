package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vpetrovich/stockroom/internal/entity"
)

type FileStorage interface {
	Save(ctx context.Context, key string, data io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Stat(ctx context.Context, key string) (*entity.StorageFile, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) bool
	List(ctx context.Context, prefix string) ([]entity.StorageFile, error)
}

type localStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) FileStorage {
	return &localStorage{basePath: basePath}
}

func (s *localStorage) Save(ctx context.Context, key string, data io.Reader, size int64, contentType string) error {
	fullPath := filepath.Join(s.basePath, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, data)
	return err
}

func (s *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, key)
	file, err := os.Open(fullPath)
	if os.IsNotExist(err) {
		return nil, entity.ErrFileNotFound
	}
	return file, err
}

func (s *localStorage) Stat(ctx context.Context, key string) (*entity.StorageFile, error) {
	fullPath := filepath.Join(s.basePath, key)

	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return nil, entity.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, entity.ErrFileNotFound
	}

	return &entity.StorageFile{
		Key:          filepath.ToSlash(key),
		Name:         info.Name(),
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}, nil
}

func (s *localStorage) Delete(ctx context.Context, key string) error {
	fullPath := filepath.Join(s.basePath, key)

	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return entity.ErrFileNotFound
	}
	if err != nil {
		return err
	}

	if info.IsDir() {
		return os.RemoveAll(fullPath)
	}
	return os.Remove(fullPath)
}

func (s *localStorage) Exists(ctx context.Context, key string) bool {
	fullPath := filepath.Join(s.basePath, key)
	_, err := os.Stat(fullPath)
	return !os.IsNotExist(err)
}

func (s *localStorage) List(ctx context.Context, prefix string) ([]entity.StorageFile, error) {
	root := filepath.Join(s.basePath, prefix)

	var files []entity.StorageFile
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}

		files = append(files, entity.StorageFile{
			Key:          filepath.ToSlash(rel),
			Name:         info.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// CleanKey normalizes a storage key and rejects path traversal.
func CleanKey(key string) (string, bool) {
	key = strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+key)), "/")
	if key == "" || key == "." {
		return "", false
	}
	return key, true
}
