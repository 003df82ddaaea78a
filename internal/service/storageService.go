package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vpetrovich/stockroom/internal/entity"
	"github.com/vpetrovich/stockroom/internal/pkg/storage"
)

func (s *storageService) Upload(ctx context.Context, file *multipart.FileHeader, opts entity.UploadOptions) (*entity.UploadResult, error) {
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = s.cfg.MaxUploadSize
	}
	if maxSize > 0 && file.Size > maxSize {
		return nil, entity.ErrFileTooLarge
	}

	allowed := opts.AllowedExtensions
	if len(allowed) == 0 {
		allowed = s.cfg.AllowedExtensions
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !extensionAllowed(ext, allowed) {
		return nil, entity.ErrInvalidFileType
	}

	folder := opts.Folder
	if folder == "" {
		folder = "files"
	}
	cleanFolder, ok := storage.CleanKey(folder)
	if !ok {
		return nil, fmt.Errorf("%w: bad folder name", entity.ErrInvalidInput)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = file.Header.Get("Content-Type")
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	key := path.Join(cleanFolder, uuid.New().String()+ext)

	if err := s.storage.Save(ctx, key, src, file.Size, contentType); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"key":  key,
		"size": file.Size,
	}).Info("File uploaded")

	return &entity.UploadResult{
		Key:         key,
		Size:        file.Size,
		ContentType: contentType,
		URL:         s.fileURL(key),
	}, nil
}

func (s *storageService) Download(ctx context.Context, key string) (io.ReadCloser, *entity.StorageFile, error) {
	cleanKey, ok := storage.CleanKey(key)
	if !ok {
		return nil, nil, entity.ErrFileNotFound
	}

	info, err := s.storage.Stat(ctx, cleanKey)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.storage.Get(ctx, cleanKey)
	if err != nil {
		return nil, nil, err
	}

	if info.ContentType == "" {
		info.ContentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(cleanKey)))
	}

	return reader, info, nil
}

func (s *storageService) Delete(ctx context.Context, key string) error {
	cleanKey, ok := storage.CleanKey(key)
	if !ok {
		return entity.ErrFileNotFound
	}

	return s.storage.Delete(ctx, cleanKey)
}

func (s *storageService) List(ctx context.Context, folder string) ([]entity.StorageFile, error) {
	prefix := ""
	if folder != "" {
		clean, ok := storage.CleanKey(folder)
		if !ok {
			return nil, fmt.Errorf("%w: bad folder name", entity.ErrInvalidInput)
		}
		prefix = clean
	}

	files, err := s.storage.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return files, nil
}

func (s *storageService) fileURL(key string) string {
	return strings.TrimSuffix(s.cfg.BaseURL, "/") + "/" + key
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}
