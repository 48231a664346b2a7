package cache

import (
	"github.com/deal-proximity/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisStreams создает отдельного клиента для стрима изменений сделок.
// Без REDIS_STREAMS_HOST конфиг совпадает с кешем (см. config.applyDefaults),
// но пул соединений у стримов всегда свой.
func NewRedisStreams(cfg *config.RedisStreamsConfig, logger *zap.Logger) (*redis.Client, error) {
	return connect("streams", cfg.Host, cfg.Port, cfg.Password, cfg.DB, logger)
}
