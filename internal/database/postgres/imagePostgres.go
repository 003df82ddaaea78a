package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vpetrovich/stockroom/internal/database"
	"github.com/vpetrovich/stockroom/internal/entity"
)

type imageRepository struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) database.ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *entity.Image) error {
	query := `
		INSERT INTO images (id, original_name, content_type, status, storage_key, width, height, format, size_bytes, variants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	variants, err := json.Marshal(image.Variants)
	if err != nil {
		return fmt.Errorf("failed to marshal variants: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		image.ID,
		image.OriginalName,
		image.ContentType,
		image.Status,
		image.StorageKey,
		image.Metadata.Width,
		image.Metadata.Height,
		image.Metadata.Format,
		image.Metadata.Size,
		variants,
		time.Now(),
		time.Now(),
	)

	return err
}

func (r *imageRepository) GetByID(ctx context.Context, id string) (*entity.Image, error) {
	query := `
		SELECT id, original_name, content_type, status, storage_key, width, height, format, size_bytes, variants, created_at, updated_at
		FROM images
		WHERE id = $1
	`

	image, err := scanImage(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	return image, nil
}

func (r *imageRepository) GetAll(ctx context.Context) ([]*entity.Image, error) {
	query := `
		SELECT id, original_name, content_type, status, storage_key, width, height, format, size_bytes, variants, created_at, updated_at
		FROM images
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	var images []*entity.Image
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, image)
	}

	return images, nil
}

func (r *imageRepository) UpdateResult(ctx context.Context, id string, status string, variants entity.OptimizedImages, meta entity.ImageMetadata) error {
	query := `
		UPDATE images
		SET status = $1, variants = $2, width = $3, height = $4, format = $5, size_bytes = $6, updated_at = $7
		WHERE id = $8
	`

	data, err := json.Marshal(variants)
	if err != nil {
		return fmt.Errorf("failed to marshal variants: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query,
		status, data, meta.Width, meta.Height, meta.Format, meta.Size, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update image result: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrImageNotFound
	}

	return nil
}

func (r *imageRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	query := `UPDATE images SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update image status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrImageNotFound
	}

	return nil
}

func (r *imageRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM images WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrImageNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanImage(row rowScanner) (*entity.Image, error) {
	var image entity.Image
	var variants []byte

	err := row.Scan(
		&image.ID,
		&image.OriginalName,
		&image.ContentType,
		&image.Status,
		&image.StorageKey,
		&image.Metadata.Width,
		&image.Metadata.Height,
		&image.Metadata.Format,
		&image.Metadata.Size,
		&variants,
		&image.CreatedAt,
		&image.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &image.Variants); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variants: %w", err)
		}
	}

	return &image, nil
}
