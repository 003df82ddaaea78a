package entity

import "time"

const (
	ImageStatusProcessing = "processing"
	ImageStatusCompleted  = "completed"
	ImageStatusFailed     = "failed"
)

type Image struct {
	ID           string          `json:"id" db:"id"`
	OriginalName string          `json:"original_name" db:"original_name"`
	ContentType  string          `json:"content_type" db:"content_type"`
	Status       string          `json:"status" db:"status"`
	StorageKey   string          `json:"storage_key" db:"storage_key"`
	Metadata     ImageMetadata   `json:"metadata"`
	Variants     OptimizedImages `json:"variants,omitempty"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

type ImageMetadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// OptimizedImages holds the storage keys of the resized variants.
type OptimizedImages struct {
	Thumbnail string `json:"thumbnail,omitempty"`
	Medium    string `json:"medium,omitempty"`
	Large     string `json:"large,omitempty"`
}

func (o OptimizedImages) Empty() bool {
	return o.Thumbnail == "" && o.Medium == "" && o.Large == ""
}

type ImageOptions struct {
	ThumbnailWidth int `json:"thumbnail_width"`
	MediumWidth    int `json:"medium_width"`
	LargeWidth     int `json:"large_width"`
	Quality        int `json:"quality"`
}

// OptimizeTask is the Kafka payload consumed by the optimizer worker.
type OptimizeTask struct {
	ImageID    string       `json:"image_id"`
	StorageKey string       `json:"storage_key"`
	Options    ImageOptions `json:"options"`
}

type UploadImageResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
