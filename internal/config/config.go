package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	RedisStreams RedisStreamsConfig
	Cache        CacheConfig
	Log          LogConfig
	Proximity    ProximityConfig
	Worker       WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisStreamsConfig - отдельный Redis для стрима изменений сделок.
// Если не задан, используется основной Redis.
type RedisStreamsConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	DealsCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// ProximityConfig - параметры селектора конкурентов на карте
type ProximityConfig struct {
	DefaultRadius int
	CirclePoints  int
	FitPadding    float64
	FitDuration   time.Duration
	FrameInterval time.Duration
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
	// как часто и после какого простоя забираются неподтвержденные сообщения группы
	PendingRetryInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// .env необязателен: в контейнере всё приходит из окружения
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RedisStreams: RedisStreamsConfig{
			Host:     viper.GetString("REDIS_STREAMS_HOST"),
			Port:     viper.GetInt("REDIS_STREAMS_PORT"),
			Password: viper.GetString("REDIS_STREAMS_PASSWORD"),
			DB:       viper.GetInt("REDIS_STREAMS_DB"),
		},
		Cache: CacheConfig{
			DealsCacheTTL: time.Duration(viper.GetInt("DEALS_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Proximity: ProximityConfig{
			DefaultRadius: viper.GetInt("PROXIMITY_DEFAULT_RADIUS"),
			CirclePoints:  viper.GetInt("PROXIMITY_CIRCLE_POINTS"),
			FitPadding:    viper.GetFloat64("PROXIMITY_FIT_PADDING"),
			FitDuration:   time.Duration(viper.GetInt("PROXIMITY_FIT_DURATION_MS")) * time.Millisecond,
			FrameInterval: time.Duration(viper.GetInt("PROXIMITY_FRAME_INTERVAL_MS")) * time.Millisecond,
		},
		Worker: WorkerConfig{
			Enabled:              viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:        viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout:    time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:           viper.GetInt("WORKER_MAX_RETRIES"),
			PendingRetryInterval: time.Duration(viper.GetInt("WORKER_PENDING_RETRY_INTERVAL")) * time.Millisecond,
		},
	}

	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults - значения по умолчанию для незаданных параметров
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Cache.DealsCacheTTL == 0 {
		c.Cache.DealsCacheTTL = 5 * time.Minute
	}

	if c.RedisStreams.Host == "" {
		c.RedisStreams = RedisStreamsConfig(c.Redis)
	}

	if c.Proximity.DefaultRadius == 0 {
		c.Proximity.DefaultRadius = 10
	}
	if c.Proximity.CirclePoints == 0 {
		c.Proximity.CirclePoints = 64
	}
	if c.Proximity.FitPadding == 0 {
		c.Proximity.FitPadding = 0.2
	}
	if c.Proximity.FitDuration == 0 {
		c.Proximity.FitDuration = 800 * time.Millisecond
	}
	if c.Proximity.FrameInterval == 0 {
		c.Proximity.FrameInterval = 16 * time.Millisecond
	}

	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "deal-cache-invalidators"
	}
	if c.Worker.StreamReadTimeout == 0 {
		c.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if c.Worker.MaxRetries == 0 {
		c.Worker.MaxRetries = 3
	}
	if c.Worker.PendingRetryInterval == 0 {
		c.Worker.PendingRetryInterval = 30 * time.Second
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
