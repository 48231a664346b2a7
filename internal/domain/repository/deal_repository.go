package repository

import (
	"context"

	"github.com/deal-proximity/internal/domain"
)

// DealRepository - доступ только на чтение к сделкам и их локациям
type DealRepository interface {
	// GetByID возвращает сделку вместе с локациями мерчанта
	GetByID(ctx context.Context, id string) (*domain.Deal, error)

	// ListByCategory возвращает опубликованные сделки категории с локациями
	ListByCategory(ctx context.Context, category string) ([]domain.Deal, error)

	// ListCategories возвращает таксономию категорий с количеством сделок
	ListCategories(ctx context.Context) ([]domain.DealCategory, error)
}
