package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vpetrovich/stockroom/internal/entity"
	"github.com/vpetrovich/stockroom/internal/pkg/optimizer"
)

func (s *imageService) UploadImage(ctx context.Context, file *multipart.FileHeader) (*entity.Image, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !isValidImageType(ext) {
		return nil, entity.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	meta, err := optimizer.ProbeMetadata(data)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	key := optimizer.OriginalKey(id, ext)

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/" + meta.Format
	}

	if err := s.storage.Save(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("failed to save original: %w", err)
	}

	image := &entity.Image{
		ID:           id,
		OriginalName: file.Filename,
		ContentType:  contentType,
		Status:       entity.ImageStatusProcessing,
		StorageKey:   key,
		Metadata:     meta,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("failed to create image record: %w", err)
	}

	task := entity.OptimizeTask{
		ImageID:    id,
		StorageKey: key,
		Options: entity.ImageOptions{
			ThumbnailWidth: s.cfg.ThumbnailWidth,
			MediumWidth:    s.cfg.MediumWidth,
			LargeWidth:     s.cfg.LargeWidth,
			Quality:        s.cfg.Quality,
		},
	}

	if err := s.producer.SendMessage(ctx, id, task); err != nil {
		// nothing will ever pick the row up, so undo the upload
		if delErr := s.repo.Delete(ctx, id); delErr != nil {
			logrus.Errorf("Failed to remove record for image %s: %v", id, delErr)
		}
		if delErr := s.storage.Delete(ctx, key); delErr != nil && delErr != entity.ErrFileNotFound {
			logrus.Errorf("Failed to remove original for image %s: %v", id, delErr)
		}
		return nil, fmt.Errorf("failed to enqueue optimization task: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"id":     id,
		"name":   file.Filename,
		"format": meta.Format,
	}).Info("Image accepted for optimization")

	return image, nil
}

func (s *imageService) GetImage(ctx context.Context, id string) (*entity.Image, error) {
	image, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// variants are only meaningful once optimization finished
	if image.Status != entity.ImageStatusCompleted {
		image.Variants = entity.OptimizedImages{}
	}

	return image, nil
}

func (s *imageService) ListImages(ctx context.Context) ([]*entity.Image, error) {
	return s.repo.GetAll(ctx)
}

func (s *imageService) DeleteImage(ctx context.Context, id string) error {
	image, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, image.StorageKey); err != nil && err != entity.ErrFileNotFound {
		logrus.Errorf("Failed to delete original for image %s: %v", id, err)
	}

	processedDir := "images/processed/" + id
	if err := s.storage.Delete(ctx, processedDir); err != nil && err != entity.ErrFileNotFound {
		logrus.Errorf("Failed to delete variants for image %s: %v", id, err)
	}

	return nil
}

func isValidImageType(ext string) bool {
	validTypes := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
	}
	return validTypes[ext]
}
