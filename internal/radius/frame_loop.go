package radius

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultFrameInterval = 16 * time.Millisecond
	taskQueueSize        = 64
)

// FrameLoop - однопоточный цикл интерактивной сессии. Задачи из Post и
// кадровые колбэки выполняются строго последовательно в одной горутине,
// поэтому контроллер и представление работают без блокировок.
//
// RequestFrame и CancelFrame можно вызывать только изнутри цикла.
type FrameLoop struct {
	logger   *zap.Logger
	interval time.Duration
	tasks    chan func()
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// принадлежат горутине цикла
	nextID  FrameID
	pending map[FrameID]func()
}

// NewFrameLoop создает цикл с заданным интервалом кадра
func NewFrameLoop(logger *zap.Logger, interval time.Duration) *FrameLoop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameLoop{
		logger:   logger,
		interval: interval,
		tasks:    make(chan func(), taskQueueSize),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		pending:  make(map[FrameID]func()),
	}
}

// Start запускает цикл
func (l *FrameLoop) Start(ctx context.Context) {
	l.wg.Add(1)
	go l.run(ctx)
}

// Stop выполняет уже поставленные задачи, отменяет ожидающие кадры и
// дожидается завершения цикла. Повторный вызов безопасен. Отмена ctx из Start
// завершает цикл так же.
func (l *FrameLoop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
}

// Post ставит задачу в очередь цикла. Возвращает false, если цикл остановлен.
func (l *FrameLoop) Post(fn func()) bool {
	select {
	case <-l.stopChan:
		return false
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.stopChan:
		return false
	case <-l.done:
		return false
	}
}

// RequestFrame откладывает fn до ближайшего тика
func (l *FrameLoop) RequestFrame(fn func()) FrameID {
	l.nextID++
	l.pending[l.nextID] = fn
	return l.nextID
}

// CancelFrame отменяет запрошенный кадр. Неизвестный id игнорируется.
func (l *FrameLoop) CancelFrame(id FrameID) {
	delete(l.pending, id)
}

func (l *FrameLoop) run(ctx context.Context) {
	defer l.wg.Done()
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.drainTasks()
			l.discardFrames()
			l.logger.Debug("Frame loop context cancelled")
			return

		case <-l.stopChan:
			l.drainTasks()
			l.discardFrames()
			l.logger.Debug("Frame loop stopped")
			return

		case fn := <-l.tasks:
			fn()

		case <-ticker.C:
			l.runFrame()
		}
	}
}

// runFrame выполняет кадры, запрошенные до начала тика, в порядке запроса.
// Кадры, запрошенные из колбэков, уходят на следующий тик.
func (l *FrameLoop) runFrame() {
	if len(l.pending) == 0 {
		return
	}

	ids := make([]FrameID, 0, len(l.pending))
	for id := range l.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		fn, ok := l.pending[id]
		if !ok {
			continue
		}
		delete(l.pending, id)
		fn()
	}
}

func (l *FrameLoop) drainTasks() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		default:
			return
		}
	}
}

func (l *FrameLoop) discardFrames() {
	if n := len(l.pending); n > 0 {
		l.logger.Debug("Discarding pending frames", zap.Int("count", n))
	}
	l.pending = make(map[FrameID]func())
}
