package main

// @title Deal Proximity API
// @version 1.0.0
// @description Сервис подбора сделок-конкурентов рядом с мерчантом.
// @description
// @description Основные возможности:
// @description - Сделки той же категории в радиусе от локации сделки, по возрастанию расстояния
// @description - Полигон окружности радиуса и область подгонки карты
// @description - Интерактивный выбор радиуса перетаскиванием окружности (WebSocket /ws/deals/{id}/radius)

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/deal-proximity/docs"
	"github.com/deal-proximity/internal/config"
	httpDelivery "github.com/deal-proximity/internal/delivery/http"
	"github.com/deal-proximity/internal/delivery/http/handler"
	"github.com/deal-proximity/internal/delivery/http/ws"
	"github.com/deal-proximity/internal/pkg/logger"
	"github.com/deal-proximity/internal/repository/cache"
	"github.com/deal-proximity/internal/repository/postgres"
	"github.com/deal-proximity/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "deal-proximity")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Deal Proximity Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Int("default_radius", cfg.Proximity.DefaultRadius),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	dealRepo := postgres.NewDealRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	// 7. Initialize Use Cases
	proximityUC := usecase.NewProximityUseCase(
		dealRepo,
		cacheRepo,
		log,
		cfg.Cache.DealsCacheTTL,
		cfg.Proximity.DefaultRadius,
		cfg.Proximity.CirclePoints,
	)

	// 8. Initialize HTTP Handlers
	proximityHandler := handler.NewProximityHandler(proximityUC, log)
	radiusHandler := ws.NewRadiusHandler(proximityUC, ws.SessionConfig{
		CirclePoints:  cfg.Proximity.CirclePoints,
		FitPadding:    cfg.Proximity.FitPadding,
		FitDuration:   cfg.Proximity.FitDuration,
		FrameInterval: cfg.Proximity.FrameInterval,
	}, log)

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, proximityHandler, radiusHandler)

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
