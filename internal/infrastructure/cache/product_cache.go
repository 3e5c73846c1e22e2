// Package cache holds the Redis-backed decorators: a read-through product
// cache and the encrypted session store adapter.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"agrichain.backend/internal/domain/entities"
	"agrichain.backend/internal/domain/repositories"
	"agrichain.backend/pkg/logger"
	"agrichain.backend/pkg/metrics"
)

const productCacheName = "product"

// ProductRepository decorates a product store with a Redis read-through
// cache for GetByID. Redis failures trip a circuit breaker and reads fall
// through to the wrapped store.
type ProductRepository struct {
	next repositories.ProductRepository
	rdb  *goredis.Client
	ttl  time.Duration
	sf   singleflight.Group
	cb   *gobreaker.CircuitBreaker
}

var jitter = func() time.Duration { return time.Duration(rand.Intn(60)) * time.Second }

// NewProductRepository wraps next. A zero ttl defaults to ten minutes.
func NewProductRepository(next repositories.ProductRepository, rdb *goredis.Client, ttl time.Duration) *ProductRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	st := gobreaker.Settings{
		Name:        "ProductCacheBreaker",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(context.Background(), "Circuit breaker state changed",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &ProductRepository{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		cb:   gobreaker.NewCircuitBreaker(st),
	}
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func (c *ProductRepository) GetByID(ctx context.Context, id int64) (*entities.Product, error) {
	key := productKey(id)

	val, err := c.cb.Execute(func() (interface{}, error) {
		res, err := c.rdb.Get(ctx, key).Result()
		if err == goredis.Nil {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	if err != nil {
		logger.Warn(ctx, "Product cache unavailable, reading through", zap.Int64("product_id", id), zap.Error(err))
		return c.next.GetByID(ctx, id)
	}

	if val != nil {
		var product entities.Product
		if err := json.Unmarshal([]byte(val.(string)), &product); err == nil {
			metrics.RecordCache(productCacheName, true)
			return &product, nil
		}
		logger.Warn(ctx, "Discarding undecodable cache entry", zap.String("key", key))
	}
	metrics.RecordCache(productCacheName, false)

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		product, err := c.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(product)
		if err != nil {
			return nil, fmt.Errorf("encode product %d: %w", id, err)
		}
		if err := c.rdb.Set(ctx, key, data, c.ttl+jitter()).Err(); err != nil {
			logger.Warn(ctx, "Failed to write product cache", zap.String("key", key), zap.Error(err))
		}
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*entities.Product).Clone(), nil
}

func (c *ProductRepository) Create(ctx context.Context, product *entities.Product) error {
	return c.next.Create(ctx, product)
}

func (c *ProductRepository) List(ctx context.Context, filter entities.ProductFilter) ([]*entities.Product, error) {
	return c.next.List(ctx, filter)
}

func (c *ProductRepository) Search(ctx context.Context, query string) ([]*entities.Product, error) {
	return c.next.Search(ctx, query)
}

func (c *ProductRepository) Update(ctx context.Context, id int64, input *entities.UpdateProductInput) (*entities.Product, error) {
	product, err := c.next.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return product, nil
}

func (c *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := c.next.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	c.invalidate(ctx, id)
	return deleted, nil
}

// invalidate drops the cached entry once the write is visible to readers.
// Inside a unit of work that is after commit.
func (c *ProductRepository) invalidate(ctx context.Context, id int64) {
	repositories.AfterCommit(ctx, func(ctx context.Context) {
		if err := c.rdb.Del(ctx, productKey(id)).Err(); err != nil {
			logger.Error(ctx, "Failed to invalidate product cache", zap.Int64("product_id", id), zap.Error(err))
		}
	})
}
