package deals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/domain/repository"
	"github.com/deal-proximity/internal/pkg/metrics"
	"github.com/deal-proximity/internal/worker"
	"go.uber.org/zap"
)

const (
	maxBatchSize    = 50
	emptyQueueSleep = 100 * time.Millisecond
	errorBackoff    = time.Second

	defaultPendingInterval = 30 * time.Second
)

// CacheInvalidationWorker сбрасывает закешированные списки сделок категорий
// по событиям из stream:deals:changed
type CacheInvalidationWorker struct {
	*worker.BaseWorker
	streamRepo  repository.StreamRepository
	cacheRepo   repository.CacheRepository
	maxRetries  int
	readTimeout time.Duration

	// неподтвержденные сообщения забираются повторно не чаще pendingInterval
	// и только пролежавшие в PEL не меньше него
	pendingInterval time.Duration
	checkPending    bool
	lastPendingScan time.Time
}

// NewCacheInvalidationWorker создает CacheInvalidationWorker
func NewCacheInvalidationWorker(
	streamRepo repository.StreamRepository,
	cacheRepo repository.CacheRepository,
	consumerGroup string,
	maxRetries int,
	readTimeout time.Duration,
	pendingInterval time.Duration,
	logger *zap.Logger,
) *CacheInvalidationWorker {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if pendingInterval <= 0 {
		pendingInterval = defaultPendingInterval
	}
	return &CacheInvalidationWorker{
		BaseWorker:      worker.NewBaseWorker("deal-cache-invalidation", domain.StreamDealsChanged, consumerGroup, logger),
		streamRepo:      streamRepo,
		cacheRepo:       cacheRepo,
		maxRetries:      maxRetries,
		readTimeout:     readTimeout,
		pendingInterval: pendingInterval,
		// после рестарта в группе могут остаться сообщения прежнего процесса
		checkPending: true,
	}
}

// Start запускает цикл чтения стрима
func (w *CacheInvalidationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting cache invalidation worker",
		zap.String("stream", w.Stream()),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()))

	if err := w.streamRepo.CreateConsumerGroup(ctx, w.Stream(), w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
		}

		processed, err := w.processBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			w.sleep(ctx, errorBackoff)
			continue
		}

		if processed == 0 {
			w.sleep(ctx, emptyQueueSleep)
		}
	}
}

// processBatch читает пачку событий, сбрасывает кеш затронутых категорий
// и подтверждает сообщения. Возвращает число прочитанных сообщений.
func (w *CacheInvalidationWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	readCtx := ctx
	if w.readTimeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, w.readTimeout)
		defer cancel()
	}

	messages, err := w.nextMessages(readCtx)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	// категория -> сообщения, которые ждут её сброса
	pending := make(map[string][]string)
	order := make([]string, 0)
	noop := make([]string, 0)

	for _, msg := range messages {
		event, err := parseEvent(msg)
		if err != nil {
			logger.Warn("Malformed deal event, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			metrics.StreamEventsProcessed.WithLabelValues("malformed").Inc()
			w.ack(ctx, msg.ID)
			continue
		}

		categories := event.AffectedCategories()
		if len(categories) == 0 {
			noop = append(noop, msg.ID)
			continue
		}
		for _, category := range categories {
			if _, seen := pending[category]; !seen {
				order = append(order, category)
			}
			pending[category] = append(pending[category], msg.ID)
		}
	}

	failed := make(map[string]bool)
	for _, category := range order {
		if err := w.invalidate(ctx, category); err != nil {
			logger.Error("Failed to invalidate category cache",
				zap.String("category", category),
				zap.Error(err))
			for _, id := range pending[category] {
				failed[id] = true
			}
		}
	}

	acked := make(map[string]bool)
	for _, category := range order {
		for _, id := range pending[category] {
			if failed[id] || acked[id] {
				continue
			}
			acked[id] = true
			w.ack(ctx, id)
			metrics.StreamEventsProcessed.WithLabelValues("invalidated").Inc()
		}
	}
	for _, id := range noop {
		w.ack(ctx, id)
		metrics.StreamEventsProcessed.WithLabelValues("noop").Inc()
	}
	for range failed {
		metrics.StreamEventsProcessed.WithLabelValues("failed").Inc()
	}
	if len(failed) > 0 {
		// повтор после pendingInterval, когда сообщения станут достаточно старыми для claim
		w.checkPending = true
		w.lastPendingScan = time.Now()
	}

	logger.Debug("Batch processed",
		zap.Int("messages", len(messages)),
		zap.Int("categories", len(order)),
		zap.Int("failed", len(failed)))

	return len(messages), nil
}

// nextMessages сначала забирает зависшие неподтвержденные сообщения (если
// подошло время), затем читает новые
func (w *CacheInvalidationWorker) nextMessages(ctx context.Context) ([]domain.StreamMessage, error) {
	if w.checkPending && time.Since(w.lastPendingScan) >= w.pendingInterval {
		w.lastPendingScan = time.Now()

		claimed, err := w.streamRepo.ConsumePending(ctx, w.Stream(), w.ConsumerGroup(), w.ConsumerName(), w.pendingInterval, maxBatchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to claim pending messages: %w", err)
		}
		if len(claimed) > 0 {
			w.Logger().Info("Retrying pending deal events", zap.Int("count", len(claimed)))
			return claimed, nil
		}
		w.checkPending = false
	}

	messages, err := w.streamRepo.ConsumeBatch(ctx, w.Stream(), w.ConsumerGroup(), w.ConsumerName(), maxBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to consume batch: %w", err)
	}
	return messages, nil
}

func (w *CacheInvalidationWorker) invalidate(ctx context.Context, category string) error {
	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if err = w.cacheRepo.InvalidateCategory(ctx, category); err == nil {
			return nil
		}
		w.Logger().Warn("Cache invalidation attempt failed",
			zap.String("category", category),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return err
}

func (w *CacheInvalidationWorker) ack(ctx context.Context, messageID string) {
	if err := w.streamRepo.AckMessage(ctx, w.Stream(), w.ConsumerGroup(), messageID); err != nil {
		w.Logger().Error("Failed to ack message",
			zap.String("message_id", messageID),
			zap.Error(err))
	}
}

func (w *CacheInvalidationWorker) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	case <-w.StopChan():
	}
}

func parseEvent(msg domain.StreamMessage) (*domain.DealChangedEvent, error) {
	var event domain.DealChangedEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.DealID == "" {
		return nil, fmt.Errorf("event has no deal_id")
	}
	return &event, nil
}
