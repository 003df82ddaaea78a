package optimizer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpetrovich/stockroom/internal/entity"
	"github.com/vpetrovich/stockroom/internal/pkg/storage"
)

func TestResizeToWidth(t *testing.T) {
	tests := []struct {
		name           string
		originalWidth  int
		originalHeight int
		targetWidth    int
		wantWidth      int
		wantHeight     int
	}{
		{
			name:           "downscale landscape",
			originalWidth:  800,
			originalHeight: 600,
			targetWidth:    400,
			wantWidth:      400,
			wantHeight:     300,
		},
		{
			name:           "downscale portrait",
			originalWidth:  600,
			originalHeight: 800,
			targetWidth:    150,
			wantWidth:      150,
			wantHeight:     200,
		},
		{
			name:           "never upscale small image",
			originalWidth:  100,
			originalHeight: 50,
			targetWidth:    800,
			wantWidth:      100,
			wantHeight:     50,
		},
		{
			name:           "exact width kept",
			originalWidth:  400,
			originalHeight: 300,
			targetWidth:    400,
			wantWidth:      400,
			wantHeight:     300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := image.NewRGBA(image.Rect(0, 0, tt.originalWidth, tt.originalHeight))
			fillImageWithColor(original, color.RGBA{R: 100, G: 150, B: 200, A: 255})

			resized := ResizeToWidth(original, tt.targetWidth)

			require.NotNil(t, resized)
			assert.Equal(t, tt.wantWidth, resized.Bounds().Dx())
			assert.Equal(t, tt.wantHeight, resized.Bounds().Dy())
		})
	}
}

func TestEncode(t *testing.T) {
	original := image.NewRGBA(image.Rect(0, 0, 10, 10))
	fillImageWithColor(original, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	tests := []struct {
		name       string
		format     string
		wantFormat string
	}{
		{name: "jpeg stays jpeg", format: "jpeg", wantFormat: "jpeg"},
		{name: "png stays png", format: "png", wantFormat: "png"},
		{name: "gif becomes png", format: "gif", wantFormat: "png"},
		{name: "unknown falls back to jpeg", format: "bmp", wantFormat: "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(original, tt.format, 90)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			_, format, err := image.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, format)
		})
	}
}

func TestProbeMetadata(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	fillImageWithColor(img, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	meta, err := ProbeMetadata(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, 320, meta.Width)
	assert.Equal(t, 240, meta.Height)
	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, int64(buf.Len()), meta.Size)
}

func TestProbeMetadataRejectsGarbage(t *testing.T) {
	_, err := ProbeMetadata([]byte("definitely not an image"))
	assert.ErrorIs(t, err, entity.ErrUnsupportedImage)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "images/original/abc.jpg", OriginalKey("abc", ".jpg"))
	assert.Equal(t, "images/processed/abc/thumbnail", VariantKey("abc", "thumbnail"))
}

type fakeImageRepo struct {
	status   string
	variants entity.OptimizedImages
	meta     entity.ImageMetadata
}

func (f *fakeImageRepo) Create(ctx context.Context, image *entity.Image) error { return nil }
func (f *fakeImageRepo) GetByID(ctx context.Context, id string) (*entity.Image, error) {
	return nil, entity.ErrImageNotFound
}
func (f *fakeImageRepo) GetAll(ctx context.Context) ([]*entity.Image, error) { return nil, nil }
func (f *fakeImageRepo) UpdateResult(ctx context.Context, id string, status string, variants entity.OptimizedImages, meta entity.ImageMetadata) error {
	f.status = status
	f.variants = variants
	f.meta = meta
	return nil
}
func (f *fakeImageRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	f.status = status
	return nil
}
func (f *fakeImageRepo) Delete(ctx context.Context, id string) error { return nil }

func TestOptimizeProducesAllVariants(t *testing.T) {
	ctx := context.Background()
	fileStorage := storage.NewLocalStorage(t.TempDir())

	original := image.NewRGBA(image.Rect(0, 0, 2000, 1500))
	fillImageWithColor(original, color.RGBA{R: 150, G: 200, B: 100, A: 255})

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, original, &jpeg.Options{Quality: 95}))

	key := OriginalKey("test-image", ".jpg")
	require.NoError(t, fileStorage.Save(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "image/jpeg"))

	repo := &fakeImageRepo{}
	opt := NewImageOptimizer(fileStorage, repo)

	task := entity.OptimizeTask{
		ImageID:    "test-image",
		StorageKey: key,
		Options: entity.ImageOptions{
			ThumbnailWidth: 150,
			MediumWidth:    800,
			LargeWidth:     1600,
			Quality:        90,
		},
	}

	require.NoError(t, opt.Optimize(ctx, task))

	assert.Equal(t, entity.ImageStatusCompleted, repo.status)
	assert.Equal(t, 2000, repo.meta.Width)
	assert.Equal(t, 1500, repo.meta.Height)
	assert.Equal(t, "jpeg", repo.meta.Format)

	for variant, wantWidth := range map[string]int{"thumbnail": 150, "medium": 800, "large": 1600} {
		reader, err := fileStorage.Get(ctx, VariantKey("test-image", variant))
		require.NoError(t, err, variant)

		img, _, err := image.Decode(reader)
		reader.Close()
		require.NoError(t, err, variant)
		assert.Equal(t, wantWidth, img.Bounds().Dx(), variant)
	}

	assert.False(t, repo.variants.Empty())
	assert.Equal(t, VariantKey("test-image", "thumbnail"), repo.variants.Thumbnail)
	assert.Equal(t, VariantKey("test-image", "medium"), repo.variants.Medium)
	assert.Equal(t, VariantKey("test-image", "large"), repo.variants.Large)
}

func TestOptimizeMarksFailedOnMissingOriginal(t *testing.T) {
	repo := &fakeImageRepo{}
	opt := NewImageOptimizer(storage.NewLocalStorage(t.TempDir()), repo)

	task := entity.OptimizeTask{
		ImageID:    "missing",
		StorageKey: OriginalKey("missing", ".jpg"),
	}

	err := opt.Optimize(context.Background(), task)
	require.Error(t, err)
	assert.Equal(t, entity.ImageStatusFailed, repo.status)
}

// fillImageWithColor заполняет изображение одним цветом
func fillImageWithColor(img *image.RGBA, color color.RGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, color)
		}
	}
}
