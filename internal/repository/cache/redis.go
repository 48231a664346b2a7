package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/deal-proximity/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// Redis - клиент кеша списков сделок
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	client, err := connect("cache", cfg.Host, cfg.Port, cfg.Password, cfg.DB, logger)
	if err != nil {
		return nil, err
	}

	return &Redis{
		client: client,
		logger: logger,
	}, nil
}

// connect создает клиента и проверяет соединение. name попадает в CLIENT LIST
// и в лог, чтобы различать кеш и стримы на одном инстансе.
func connect(name, host string, port int, password string, db int, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       fmt.Sprintf("%s:%d", host, port),
		Password:   password,
		DB:         db,
		ClientName: "deal-proximity-" + name,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis (%s): %w", name, err)
	}

	logger.Info("Redis connected",
		zap.String("client", name),
		zap.String("host", host),
		zap.Int("port", port),
		zap.Int("db", db),
	)

	return client, nil
}

func (r *Redis) Close() error {
	r.logger.Info("Closing Redis connection")
	return r.client.Close()
}

func (r *Redis) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Client() *redis.Client {
	return r.client
}
