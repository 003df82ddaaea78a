package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vpetrovich/stockroom/internal/entity"
)

// CreateProductRequest represents the data needed to create a product
type CreateProductRequest struct {
	SKU          string  `json:"sku" binding:"required,min=1,max=64"`
	Name         string  `json:"name" binding:"required,min=1,max=255"`
	Description  string  `json:"description" binding:"max=1000"`
	Price        float64 `json:"price" binding:"min=0"`
	Quantity     int     `json:"quantity" binding:"min=0"`
	ReorderLevel *int    `json:"reorder_level,omitempty"`
}

// UpdateProductRequest represents the data needed to update a product
type UpdateProductRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	ReorderLevel *int     `json:"reorder_level,omitempty"`
}

// AdjustStockRequest changes a product quantity by delta
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"max=255"`
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*entity.Product, error) {
	reorderLevel := s.cfg.DefaultReorderLevel
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return nil, fmt.Errorf("%w: reorder level cannot be negative", entity.ErrInvalidInput)
		}
		reorderLevel = *req.ReorderLevel
	}

	product := &entity.Product{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Quantity:     req.Quantity,
		ReorderLevel: reorderLevel,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	if cached, err := s.cache.GetProduct(ctx, id); err == nil {
		s.countView(ctx, id)
		return cached, nil
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		logrus.Warnf("Failed to cache product %d: %v", id, err)
	}
	s.countView(ctx, id)

	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

func (s *inventoryService) GetLowStock(ctx context.Context) ([]*entity.Product, error) {
	products, err := s.repo.GetLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	return products, nil
}

func (s *inventoryService) GetPopularProducts(ctx context.Context, count int) ([]*entity.Product, error) {
	if count <= 0 {
		count = 10
	}

	ids, err := s.cache.GetPopularProducts(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("failed to get popular products: %w", err)
	}

	products := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		product, err := s.repo.GetByID(ctx, id)
		if err != nil {
			// product may have been deleted since it was viewed
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id int64, req *UpdateProductRequest) (*entity.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", entity.ErrInvalidInput)
		}
		product.Price = *req.Price
	}
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return nil, fmt.Errorf("%w: reorder level cannot be negative", entity.ErrInvalidInput)
		}
		product.ReorderLevel = *req.ReorderLevel
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return product, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if product.Quantity > 0 {
		return entity.ErrProductHasStock
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, id int64, req *AdjustStockRequest) (*entity.Product, error) {
	product, err := s.repo.AdjustQuantity(ctx, id, req.Delta, req.Reason)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)

	if product.LowStock() {
		alert := entity.LowStockAlert{
			ProductID:    product.ID,
			SKU:          product.SKU,
			Name:         product.Name,
			Quantity:     product.Quantity,
			ReorderLevel: product.ReorderLevel,
			CreatedAt:    time.Now(),
		}
		if err := s.alerts.Publish(ctx, alert); err != nil {
			logrus.Errorf("Failed to publish low stock alert for %s: %v", product.SKU, err)
		}
	}

	return product, nil
}

func (s *inventoryService) GetMovements(ctx context.Context, productID int64) ([]*entity.StockMovement, error) {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	return s.repo.GetMovements(ctx, productID)
}

func (s *inventoryService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		logrus.Warnf("Failed to invalidate product cache %d: %v", id, err)
	}
}

func (s *inventoryService) countView(ctx context.Context, id int64) {
	if err := s.cache.IncrementViews(ctx, id); err != nil {
		logrus.Debugf("Failed to count view for product %d: %v", id, err)
	}
}
