package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpetrovich/stockroom/internal/entity"
	"github.com/vpetrovich/stockroom/internal/service"
)

type stubInventoryService struct {
	product *entity.Product
	err     error
}

func (s *stubInventoryService) CreateProduct(ctx context.Context, req *service.CreateProductRequest) (*entity.Product, error) {
	return s.product, s.err
}

func (s *stubInventoryService) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	return s.product, s.err
}

func (s *stubInventoryService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*entity.Product{s.product}, nil
}

func (s *stubInventoryService) GetLowStock(ctx context.Context) ([]*entity.Product, error) {
	return nil, s.err
}

func (s *stubInventoryService) GetPopularProducts(ctx context.Context, count int) ([]*entity.Product, error) {
	return nil, s.err
}

func (s *stubInventoryService) UpdateProduct(ctx context.Context, id int64, req *service.UpdateProductRequest) (*entity.Product, error) {
	return s.product, s.err
}

func (s *stubInventoryService) DeleteProduct(ctx context.Context, id int64) error {
	return s.err
}

func (s *stubInventoryService) AdjustStock(ctx context.Context, id int64, req *service.AdjustStockRequest) (*entity.Product, error) {
	return s.product, s.err
}

func (s *stubInventoryService) GetMovements(ctx context.Context, productID int64) ([]*entity.StockMovement, error) {
	return nil, s.err
}

func newTestRouter(svc service.InventoryService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewInventoryHandler(svc)

	products := router.Group("/api/v1/products")
	{
		products.POST("", handler.CreateProduct)
		products.GET("/:id", handler.GetProduct)
		products.PUT("/:id", handler.UpdateProduct)
		products.DELETE("/:id", handler.DeleteProduct)
		products.POST("/:id/adjust", handler.AdjustStock)
	}

	return router
}

func TestCreateProductHandler(t *testing.T) {
	product := &entity.Product{ID: 1, SKU: "WID-001", Name: "Widget", Quantity: 5}

	tests := []struct {
		name       string
		body       string
		svc        *stubInventoryService
		wantStatus int
	}{
		{
			name:       "created",
			body:       `{"sku":"WID-001","name":"Widget","quantity":5}`,
			svc:        &stubInventoryService{product: product},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing required fields",
			body:       `{"quantity":5}`,
			svc:        &stubInventoryService{product: product},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{`,
			svc:        &stubInventoryService{product: product},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate sku",
			body:       `{"sku":"WID-001","name":"Widget"}`,
			svc:        &stubInventoryService{err: entity.ErrSKUExists},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetProductHandler(t *testing.T) {
	product := &entity.Product{ID: 7, SKU: "WID-007", Name: "Widget"}

	router := newTestRouter(&stubInventoryService{product: product})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got entity.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "WID-007", got.SKU)
}

func TestGetProductHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		svc        *stubInventoryService
		wantStatus int
	}{
		{
			name:       "not found",
			path:       "/api/v1/products/42",
			svc:        &stubInventoryService{err: entity.ErrProductNotFound},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad id",
			path:       "/api/v1/products/abc",
			svc:        &stubInventoryService{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.svc)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAdjustStockHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svc        *stubInventoryService
		wantStatus int
	}{
		{
			name:       "adjusted",
			body:       `{"delta":-5,"reason":"order"}`,
			svc:        &stubInventoryService{product: &entity.Product{ID: 1, Quantity: 5}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "insufficient stock",
			body:       `{"delta":-100}`,
			svc:        &stubInventoryService{err: entity.ErrInsufficientStock},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/products/1/adjust", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestDeleteProductHandlerConflict(t *testing.T) {
	router := newTestRouter(&stubInventoryService{err: entity.ErrProductHasStock})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
