package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/deal-proximity/internal/domain"
)

// MockDealRepository is a mock of DealRepository
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deal), args.Error(1)
}

func (m *MockDealRepository) ListByCategory(ctx context.Context, category string) ([]domain.Deal, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deal), args.Error(1)
}

func (m *MockDealRepository) ListCategories(ctx context.Context) ([]domain.DealCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DealCategory), args.Error(1)
}

// MockDealCache is a mock of CacheRepository
type MockDealCache struct {
	mock.Mock
}

func (m *MockDealCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDealCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockDealCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockDealCache) GetCategoryDeals(ctx context.Context, category string) ([]domain.Deal, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deal), args.Error(1)
}

func (m *MockDealCache) SetCategoryDeals(ctx context.Context, category string, deals []domain.Deal, ttl time.Duration) error {
	args := m.Called(ctx, category, deals, ttl)
	return args.Error(0)
}

func (m *MockDealCache) InvalidateCategory(ctx context.Context, category string) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}
