package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vpetrovich/stockroom/internal/entity"
	"github.com/vpetrovich/stockroom/internal/service"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(service service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

type StorageHandler struct {
	service service.StorageService
}

func NewStorageHandler(service service.StorageService) *StorageHandler {
	return &StorageHandler{service: service}
}

type ImageHandler struct {
	service service.ImageService
}

func NewImageHandler(service service.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrProductNotFound),
		errors.Is(err, entity.ErrImageNotFound),
		errors.Is(err, entity.ErrFileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrSKUExists),
		errors.Is(err, entity.ErrProductHasStock),
		errors.Is(err, entity.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrInvalidFileType),
		errors.Is(err, entity.ErrUnsupportedImage),
		errors.Is(err, entity.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
