package entity

import "time"

// UploadOptions constrain a single upload. Zero values fall back
// to the storage section of the config.
type UploadOptions struct {
	Folder            string
	AllowedExtensions []string
	MaxSize           int64
	ContentType       string
}

type UploadResult struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

type StorageFile struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}
