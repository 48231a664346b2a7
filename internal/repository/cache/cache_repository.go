package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const categoryDealsKeyPrefix = "deals:category:"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

// CategoryDealsKey - ключ кеша списка сделок категории
func CategoryDealsKey(category string) string {
	return categoryDealsKeyPrefix + category
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetCategoryDeals получает сделки категории из кеша
func (r *cacheRepository) GetCategoryDeals(ctx context.Context, category string) ([]domain.Deal, error) {
	data, err := r.Get(ctx, CategoryDealsKey(category))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var deals []domain.Deal
	if err := json.Unmarshal(data, &deals); err != nil {
		r.logger.Error("Failed to unmarshal deals from cache",
			zap.String("category", category),
			zap.Error(err))
		return nil, fmt.Errorf("unmarshal deals: %w", err)
	}
	if deals == nil {
		deals = []domain.Deal{}
	}

	return deals, nil
}

// SetCategoryDeals сохраняет сделки категории в кеше
func (r *cacheRepository) SetCategoryDeals(ctx context.Context, category string, deals []domain.Deal, ttl time.Duration) error {
	data, err := json.Marshal(deals)
	if err != nil {
		r.logger.Error("Failed to marshal deals", zap.Error(err))
		return fmt.Errorf("marshal deals: %w", err)
	}

	return r.Set(ctx, CategoryDealsKey(category), data, ttl)
}

// InvalidateCategory удаляет закешированный список сделок категории
func (r *cacheRepository) InvalidateCategory(ctx context.Context, category string) error {
	return r.Delete(ctx, CategoryDealsKey(category))
}
