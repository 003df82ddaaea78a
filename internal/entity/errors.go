package entity

import "errors"

var (
	// Product errors
	ErrProductNotFound   = errors.New("product not found")
	ErrSKUExists         = errors.New("product with this SKU already exists")
	ErrProductHasStock   = errors.New("product still has stock on hand")
	ErrInsufficientStock = errors.New("insufficient stock")

	// Storage errors
	ErrFileNotFound    = errors.New("file not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrInvalidFileType = errors.New("file type is not allowed")

	// Image errors
	ErrImageNotFound    = errors.New("image not found")
	ErrUnsupportedImage = errors.New("unsupported image format")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
