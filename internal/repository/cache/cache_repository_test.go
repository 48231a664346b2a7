package cache

import (
	"context"
	"testing"
	"time"

	"github.com/deal-proximity/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// getTestRedis creates a Redis wrapper for integration tests
func getTestRedis(t *testing.T) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	return &Redis{client: client, logger: zap.NewNop()}
}

func TestCategoryDealsKey(t *testing.T) {
	assert.Equal(t, "deals:category:Food & Drink", CategoryDealsKey("Food & Drink"))
}

func TestCacheRepository_CategoryDeals(t *testing.T) {
	r := getTestRedis(t)
	defer r.Close()

	repo := NewCacheRepository(r)
	ctx := context.Background()
	category := "test:Food & Drink"

	defer func() {
		r.Client().Del(ctx, CategoryDealsKey(category))
	}()

	t.Run("miss returns nil without error", func(t *testing.T) {
		deals, err := repo.GetCategoryDeals(ctx, category)
		require.NoError(t, err)
		assert.Nil(t, deals)
	})

	t.Run("set then get keeps locations", func(t *testing.T) {
		deals := []domain.Deal{
			{
				ID:       "deal-1",
				Title:    "Two tacos for one",
				Category: category,
				Locations: []domain.DealLocation{
					{ID: "loc-1", Coordinates: &domain.GeoPoint{Lat: 41.88, Lon: -87.63}, IsActive: true},
				},
			},
		}

		err := repo.SetCategoryDeals(ctx, category, deals, time.Minute)
		require.NoError(t, err)

		cached, err := repo.GetCategoryDeals(ctx, category)
		require.NoError(t, err)
		require.Len(t, cached, 1)
		assert.Equal(t, "deal-1", cached[0].ID)
		require.Len(t, cached[0].Locations, 1)
		require.NotNil(t, cached[0].Locations[0].Coordinates)
		assert.Equal(t, 41.88, cached[0].Locations[0].Coordinates.Lat)
	})

	t.Run("empty list is a hit, not a miss", func(t *testing.T) {
		err := repo.SetCategoryDeals(ctx, category, []domain.Deal{}, time.Minute)
		require.NoError(t, err)

		cached, err := repo.GetCategoryDeals(ctx, category)
		require.NoError(t, err)
		assert.NotNil(t, cached)
		assert.Empty(t, cached)
	})

	t.Run("invalidate removes the list", func(t *testing.T) {
		err := repo.InvalidateCategory(ctx, category)
		require.NoError(t, err)

		cached, err := repo.GetCategoryDeals(ctx, category)
		require.NoError(t, err)
		assert.Nil(t, cached)
	})
}
