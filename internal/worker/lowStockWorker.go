package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vpetrovich/stockroom/internal/entity"
	"github.com/vpetrovich/stockroom/internal/pkg/rabbitmq"
	"github.com/vpetrovich/stockroom/internal/service"
)

// LowStockWorker periodically re-checks stock levels and publishes
// alerts for anything at or below its reorder level. It catches
// products adjusted outside the API (direct SQL, imports).
type LowStockWorker struct {
	inventoryService service.InventoryService
	alerts           rabbitmq.Queue
	interval         time.Duration
}

func NewLowStockWorker(inventoryService service.InventoryService, alerts rabbitmq.Queue, interval time.Duration) *LowStockWorker {
	return &LowStockWorker{
		inventoryService: inventoryService,
		alerts:           alerts,
		interval:         interval,
	}
}

func (w *LowStockWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Low stock worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Low stock worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *LowStockWorker) sweep(ctx context.Context) {
	products, err := w.inventoryService.GetLowStock(ctx)
	if err != nil {
		logrus.Errorf("Failed to get low stock products: %v", err)
		return
	}

	if len(products) == 0 {
		return
	}

	logrus.Infof("Found %d low stock products", len(products))

	published := 0
	for _, product := range products {
		select {
		case <-ctx.Done():
			logrus.Info("Sweep interrupted by context cancellation")
			return
		default:
		}

		alert := entity.LowStockAlert{
			ProductID:    product.ID,
			SKU:          product.SKU,
			Name:         product.Name,
			Quantity:     product.Quantity,
			ReorderLevel: product.ReorderLevel,
			CreatedAt:    time.Now(),
		}

		if err := w.alerts.Publish(ctx, alert); err != nil {
			logrus.Errorf("Failed to publish low stock alert for %s: %v", product.SKU, err)
			continue
		}
		published++
	}

	logrus.Infof("Low stock sweep completed: %d alerts published", published)
}
