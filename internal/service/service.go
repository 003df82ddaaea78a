package service

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/vpetrovich/stockroom/config"
	"github.com/vpetrovich/stockroom/internal/database"
	"github.com/vpetrovich/stockroom/internal/entity"
	"github.com/vpetrovich/stockroom/internal/pkg/kafka"
	"github.com/vpetrovich/stockroom/internal/pkg/rabbitmq"
	"github.com/vpetrovich/stockroom/internal/pkg/storage"
)

// ProductCache is satisfied by the redis cache repository.
type ProductCache interface {
	SetProduct(ctx context.Context, product *entity.Product) error
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	GetPopularProducts(ctx context.Context, count int) ([]int64, error)
}

type InventoryService interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*entity.Product, error)
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	ListProducts(ctx context.Context) ([]*entity.Product, error)
	GetLowStock(ctx context.Context) ([]*entity.Product, error)
	GetPopularProducts(ctx context.Context, count int) ([]*entity.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, id int64, req *AdjustStockRequest) (*entity.Product, error)
	GetMovements(ctx context.Context, productID int64) ([]*entity.StockMovement, error)
}

type StorageService interface {
	Upload(ctx context.Context, file *multipart.FileHeader, opts entity.UploadOptions) (*entity.UploadResult, error)
	Download(ctx context.Context, key string) (io.ReadCloser, *entity.StorageFile, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, folder string) ([]entity.StorageFile, error)
}

type ImageService interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader) (*entity.Image, error)
	GetImage(ctx context.Context, id string) (*entity.Image, error)
	ListImages(ctx context.Context) ([]*entity.Image, error)
	DeleteImage(ctx context.Context, id string) error
}

type inventoryService struct {
	repo   database.ProductRepository
	cache  ProductCache
	alerts rabbitmq.Queue
	cfg    *config.InventoryConfig
}

func NewInventoryService(
	repo database.ProductRepository,
	cache ProductCache,
	alerts rabbitmq.Queue,
	cfg *config.InventoryConfig,
) InventoryService {
	return &inventoryService{
		repo:   repo,
		cache:  cache,
		alerts: alerts,
		cfg:    cfg,
	}
}

type storageService struct {
	storage storage.FileStorage
	cfg     *config.StorageConfig
}

func NewStorageService(fileStorage storage.FileStorage, cfg *config.StorageConfig) StorageService {
	return &storageService{
		storage: fileStorage,
		cfg:     cfg,
	}
}

type imageService struct {
	repo     database.ImageRepository
	storage  storage.FileStorage
	producer kafka.Producer
	cfg      *config.ImageConfig
}

func NewImageService(
	repo database.ImageRepository,
	fileStorage storage.FileStorage,
	producer kafka.Producer,
	cfg *config.ImageConfig,
) ImageService {
	return &imageService{
		repo:     repo,
		storage:  fileStorage,
		producer: producer,
		cfg:      cfg,
	}
}
