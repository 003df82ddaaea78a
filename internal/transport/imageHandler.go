package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vpetrovich/stockroom/internal/entity"
)

func (h *ImageHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	image, err := h.service.UploadImage(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, entity.UploadImageResponse{
		ID:     image.ID,
		Status: image.Status,
	})
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	image, err := h.service.GetImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, image)
}

func (h *ImageHandler) ListImages(c *gin.Context) {
	images, err := h.service.ListImages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, images)
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	if err := h.service.DeleteImage(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
