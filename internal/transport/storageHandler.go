package transport

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vpetrovich/stockroom/internal/entity"
)

func (h *StorageHandler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	opts := entity.UploadOptions{
		Folder: c.PostForm("folder"),
	}

	result, err := h.service.Upload(c.Request.Context(), file, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *StorageHandler) ListFiles(c *gin.Context) {
	files, err := h.service.List(c.Request.Context(), c.Query("folder"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files, "count": len(files)})
}

func (h *StorageHandler) DownloadFile(c *gin.Context) {
	key := c.Param("key")

	reader, info, err := h.service.Download(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	if info.ContentType != "" {
		c.Header("Content-Type", info.ContentType)
	}
	c.Header("Content-Disposition", `attachment; filename="`+info.Name+`"`)

	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}

func (h *StorageHandler) DeleteFile(c *gin.Context) {
	key := c.Param("key")

	if err := h.service.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
