package database

import (
	"context"

	"github.com/vpetrovich/stockroom/internal/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	GetAll(ctx context.Context) ([]*entity.Product, error)
	GetLowStock(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) error

	// AdjustQuantity applies delta atomically and records a stock
	// movement in the same transaction.
	AdjustQuantity(ctx context.Context, id int64, delta int, reason string) (*entity.Product, error)
	GetMovements(ctx context.Context, productID int64) ([]*entity.StockMovement, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *entity.Image) error
	GetByID(ctx context.Context, id string) (*entity.Image, error)
	GetAll(ctx context.Context) ([]*entity.Image, error)
	UpdateResult(ctx context.Context, id string, status string, variants entity.OptimizedImages, meta entity.ImageMetadata) error
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
}
