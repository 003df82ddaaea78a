package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/vpetrovich/stockroom/internal/entity"

	"github.com/redis/go-redis/v9"
)

const popularProductsKey = "popular_products"

type CacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheRepository(client *redis.Client, ttl time.Duration) *CacheRepository {
	return &CacheRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *CacheRepository) SetProduct(ctx context.Context, product *entity.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, productKey(product.ID), data, r.ttl).Err()
}

func (r *CacheRepository) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	data, err := r.client.Get(ctx, productKey(id)).Result()
	if err != nil {
		return nil, err
	}

	var product entity.Product
	err = json.Unmarshal([]byte(data), &product)
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *CacheRepository) DeleteProduct(ctx context.Context, id int64) error {
	// drop the ranking member too, otherwise deleted products linger in the top list
	if err := r.client.ZRem(ctx, popularProductsKey, strconv.FormatInt(id, 10)).Err(); err != nil {
		return err
	}
	return r.client.Del(ctx, productKey(id)).Err()
}

func (r *CacheRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.client.ZIncrBy(ctx, popularProductsKey, 1, strconv.FormatInt(id, 10)).Err()
}

func (r *CacheRepository) GetPopularProducts(ctx context.Context, count int) ([]int64, error) {
	result, err := r.client.ZRevRange(ctx, popularProductsKey, 0, int64(count-1)).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(result))
	for _, member := range result {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}
