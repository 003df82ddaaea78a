package optimizer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/vpetrovich/stockroom/internal/database"
	"github.com/vpetrovich/stockroom/internal/entity"
	"github.com/vpetrovich/stockroom/internal/pkg/storage"
)

const (
	DefaultThumbnailWidth = 150
	DefaultMediumWidth    = 800
	DefaultLargeWidth     = 1600
	DefaultQuality        = 90
)

type ImageOptimizer interface {
	Optimize(ctx context.Context, task entity.OptimizeTask) error
}

type imageOptimizer struct {
	storage storage.FileStorage
	repo    database.ImageRepository
}

func NewImageOptimizer(fileStorage storage.FileStorage, repo database.ImageRepository) ImageOptimizer {
	return &imageOptimizer{storage: fileStorage, repo: repo}
}

func (o *imageOptimizer) Optimize(ctx context.Context, task entity.OptimizeTask) error {
	logrus.Infof("Optimizing image: %s", task.ImageID)

	if err := o.optimize(ctx, task); err != nil {
		if updateErr := o.repo.UpdateStatus(ctx, task.ImageID, entity.ImageStatusFailed); updateErr != nil {
			logrus.Errorf("Failed to mark image %s as failed: %v", task.ImageID, updateErr)
		}
		return err
	}

	logrus.Infof("Completed optimizing image: %s", task.ImageID)
	return nil
}

func (o *imageOptimizer) optimize(ctx context.Context, task entity.OptimizeTask) error {
	reader, err := o.storage.Get(ctx, task.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to load original: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read original: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrUnsupportedImage, err)
	}

	meta := entity.ImageMetadata{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Format: format,
		Size:   int64(len(data)),
	}

	opts := task.Options
	variantWidths := map[string]int{
		"thumbnail": widthOrDefault(opts.ThumbnailWidth, DefaultThumbnailWidth),
		"medium":    widthOrDefault(opts.MediumWidth, DefaultMediumWidth),
		"large":     widthOrDefault(opts.LargeWidth, DefaultLargeWidth),
	}

	var variants entity.OptimizedImages
	for variant, width := range variantWidths {
		resized := ResizeToWidth(img, width)

		key := VariantKey(task.ImageID, variant)
		encoded, err := Encode(resized, format, widthOrDefault(opts.Quality, DefaultQuality))
		if err != nil {
			return fmt.Errorf("failed to encode %s variant: %w", variant, err)
		}

		if err := o.storage.Save(ctx, key, bytes.NewReader(encoded), int64(len(encoded)), contentTypeFor(format)); err != nil {
			return fmt.Errorf("failed to save %s variant: %w", variant, err)
		}

		switch variant {
		case "thumbnail":
			variants.Thumbnail = key
		case "medium":
			variants.Medium = key
		case "large":
			variants.Large = key
		}
	}

	if err := o.repo.UpdateResult(ctx, task.ImageID, entity.ImageStatusCompleted, variants, meta); err != nil {
		return fmt.Errorf("failed to update image record: %w", err)
	}

	return nil
}

// ResizeToWidth scales the image down to the given width preserving
// aspect ratio. Images narrower than the target are left as is.
func ResizeToWidth(img image.Image, width int) image.Image {
	if img.Bounds().Dx() <= width {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// Encode serializes the image in its source format. GIF frames come
// back as a single static image, so they are re-encoded as PNG.
func Encode(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	case "png", "gif":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// ProbeMetadata reads the image header without a full decode.
func ProbeMetadata(data []byte) (entity.ImageMetadata, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return entity.ImageMetadata{}, fmt.Errorf("%w: %v", entity.ErrUnsupportedImage, err)
	}

	return entity.ImageMetadata{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
		Size:   int64(len(data)),
	}, nil
}

func OriginalKey(imageID, ext string) string {
	return path.Join("images", "original", imageID+ext)
}

func VariantKey(imageID, variant string) string {
	return path.Join("images", "processed", imageID, variant)
}

func widthOrDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func contentTypeFor(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png", "gif":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
