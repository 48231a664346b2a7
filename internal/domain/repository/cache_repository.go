package repository

import (
	"context"
	"time"

	"github.com/deal-proximity/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetCategoryDeals получает список сделок категории. nil, nil - промах кеша
	GetCategoryDeals(ctx context.Context, category string) ([]domain.Deal, error)

	// SetCategoryDeals сохраняет список сделок категории
	SetCategoryDeals(ctx context.Context, category string, deals []domain.Deal, ttl time.Duration) error

	// InvalidateCategory удаляет закешированный список сделок категории
	InvalidateCategory(ctx context.Context, category string) error
}
