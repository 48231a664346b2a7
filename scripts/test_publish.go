// +build ignore

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/repository/cache"
	redisRepo "github.com/deal-proximity/internal/repository/redis"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address (cache and streams)")
	category := flag.String("category", "Food & Drink", "Deal category")
	dealID := flag.String("deal", uuid.NewString(), "Deal ID")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Маркер в кеше категории: воркер должен его удалить
	cacheKey := cache.CategoryDealsKey(*category)
	if err := client.Set(ctx, cacheKey, "[]", 10*time.Minute).Err(); err != nil {
		log.Fatalf("Failed to seed cache key: %v", err)
	}

	event := domain.DealChangedEvent{
		EventID:  uuid.New(),
		DealID:   *dealID,
		Category: *category,
		Action:   domain.DealActionUpdated,
	}

	streamRepo := redisRepo.NewStreamRepository(client, zap.NewNop())
	if err := streamRepo.PublishToStream(ctx, domain.StreamDealsChanged, &event); err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamDealsChanged)
	fmt.Printf("   Event ID: %s\n", event.EventID)
	fmt.Printf("   Deal ID: %s\n", event.DealID)
	fmt.Printf("   Category: %s\n", event.Category)

	fmt.Printf("\nWaiting for %q to be invalidated...\n", cacheKey)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout: cache key is still present")
			return
		case <-ticker.C:
			n, err := client.Exists(ctx, cacheKey).Result()
			if err != nil {
				continue
			}
			if n == 0 {
				fmt.Println("Cache invalidated")
				return
			}
		}
	}
}
