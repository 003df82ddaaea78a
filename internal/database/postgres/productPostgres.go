package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/vpetrovich/stockroom/internal/database"
	"github.com/vpetrovich/stockroom/internal/entity"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) database.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (sku, name, description, price, quantity, reorder_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		product.SKU,
		product.Name,
		product.Description,
		product.Price,
		product.Quantity,
		product.ReorderLevel,
		time.Now(),
		time.Now(),
	).Scan(&product.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return entity.ErrSKUExists
	}

	return err
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `
		SELECT id, sku, name, description, price, quantity, reorder_level, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var product entity.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Quantity,
		&product.ReorderLevel,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	query := `
		SELECT id, sku, name, description, price, quantity, reorder_level, created_at, updated_at
		FROM products
		WHERE sku = $1
	`

	var product entity.Product
	err := r.db.QueryRowContext(ctx, query, sku).Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Quantity,
		&product.ReorderLevel,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]*entity.Product, error) {
	query := `
		SELECT id, sku, name, description, price, quantity, reorder_level, created_at, updated_at
		FROM products
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) GetLowStock(ctx context.Context) ([]*entity.Product, error) {
	query := `
		SELECT id, sku, name, description, price, quantity, reorder_level, created_at, updated_at
		FROM products
		WHERE quantity <= reorder_level
		ORDER BY quantity ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, reorder_level = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.ReorderLevel,
		time.Now(),
		product.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) AdjustQuantity(ctx context.Context, id int64, delta int, reason string) (*entity.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT id, sku, name, description, price, quantity, reorder_level, created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var product entity.Product
	err = tx.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Quantity,
		&product.ReorderLevel,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	newQuantity := product.Quantity + delta
	if newQuantity < 0 {
		return nil, entity.ErrInsufficientStock
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE products SET quantity = $1, updated_at = $2 WHERE id = $3`,
		newQuantity, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO stock_movements (product_id, delta, reason, created_at) VALUES ($1, $2, $3, $4)`,
		id, delta, reason, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	product.Quantity = newQuantity
	product.UpdatedAt = now
	return &product, nil
}

func (r *productRepository) GetMovements(ctx context.Context, productID int64) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, delta, reason, created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		err := rows.Scan(&m.ID, &m.ProductID, &m.Delta, &m.Reason, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, &m)
	}

	return movements, nil
}

func scanProducts(rows *sql.Rows) ([]*entity.Product, error) {
	var products []*entity.Product
	for rows.Next() {
		var product entity.Product
		err := rows.Scan(
			&product.ID,
			&product.SKU,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Quantity,
			&product.ReorderLevel,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}

	return products, nil
}
