package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/vpetrovich/stockroom/internal/transport/middleware"
)

func InitRoutes(invHandler *InventoryHandler, storageHandler *StorageHandler, imgHandler *ImageHandler) *gin.Engine {

	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	api := router.Group("/api/v1")
	{
		// Inventory routes
		products := api.Group("/products")
		{
			products.POST("", invHandler.CreateProduct)
			products.GET("", invHandler.ListProducts)
			products.GET("/low-stock", invHandler.GetLowStock)
			products.GET("/popular", invHandler.GetPopularProducts)
			products.GET("/:id", invHandler.GetProduct)
			products.PUT("/:id", invHandler.UpdateProduct)
			products.DELETE("/:id", invHandler.DeleteProduct)
			products.POST("/:id/adjust", invHandler.AdjustStock)
			products.GET("/:id/movements", invHandler.GetMovements)
		}

		// Storage routes
		files := api.Group("/files")
		{
			files.POST("", storageHandler.UploadFile)
			files.GET("", storageHandler.ListFiles)
			files.GET("/download/*key", storageHandler.DownloadFile)
			files.DELETE("/*key", storageHandler.DeleteFile)
		}

		// Image routes
		images := api.Group("/images")
		{
			images.POST("", imgHandler.UploadImage)
			images.GET("", imgHandler.ListImages)
			images.GET("/:id", imgHandler.GetImage)
			images.DELETE("/:id", imgHandler.DeleteImage)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "stockroom-api",
		})
	})

	return router
}
