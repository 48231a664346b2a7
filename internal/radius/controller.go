package radius

import (
	"time"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/pkg/errors"
	"github.com/deal-proximity/internal/pkg/metrics"
	"github.com/deal-proximity/internal/pkg/utils"
	"go.uber.org/zap"
)

const (
	DefaultFitPadding  = 0.2
	DefaultFitDuration = 800 * time.Millisecond
)

// State - состояние перетаскивания радиуса
type State int

const (
	StateIdle State = iota
	StateDragging
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// Option настраивает Controller
type Option func(*Controller)

// WithCirclePoints задает число сегментов полигона окружности
func WithCirclePoints(points int) Option {
	return func(c *Controller) {
		if points > 0 {
			c.circlePoints = points
		}
	}
}

// WithFitPadding задает отступ области подгонки как долю радиуса
func WithFitPadding(padding float64) Option {
	return func(c *Controller) {
		if padding >= 0 {
			c.fitPadding = padding
		}
	}
}

// WithFitDuration задает длительность анимации подгонки вьюпорта
func WithFitDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.fitDuration = d
		}
	}
}

// Controller превращает перетаскивание границы окружности в изменения радиуса.
//
// Все методы вызываются из одной горутины (см. FrameLoop).
type Controller struct {
	center  domain.GeoPoint
	surface MapSurface
	frames  FrameScheduler
	logger  *zap.Logger

	circlePoints int
	fitPadding   float64
	fitDuration  time.Duration

	state  State
	radius int
	closed bool

	// последняя позиция указателя, ещё не обработанная кадром
	latest       *domain.GeoPoint
	frameID      FrameID
	framePending bool

	listeners []func(domain.RadiusState)
}

// NewController создает контроллер в состоянии Idle. Без центра контроллер
// не создается: селектор радиуса должен быть скрыт выше по стеку.
func NewController(
	center *domain.GeoPoint,
	defaultRadius int,
	surface MapSurface,
	frames FrameScheduler,
	logger *zap.Logger,
	opts ...Option,
) (*Controller, error) {
	if center == nil {
		return nil, errors.ErrCenterRequired
	}

	c := &Controller{
		center:       *center,
		surface:      surface,
		frames:       frames,
		logger:       logger,
		circlePoints: domain.DefaultCirclePoints,
		fitPadding:   DefaultFitPadding,
		fitDuration:  DefaultFitDuration,
		state:        StateIdle,
		radius:       utils.ClampRadius(float64(defaultRadius)),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// State возвращает текущее состояние
func (c *Controller) State() State {
	return c.state
}

// Center возвращает центр окружности
func (c *Controller) Center() domain.GeoPoint {
	return c.center
}

// RadiusState возвращает опубликованный радиус и флаг перетаскивания
func (c *Controller) RadiusState() domain.RadiusState {
	return domain.RadiusState{
		RadiusMiles: c.radius,
		IsDragging:  c.state == StateDragging,
	}
}

// OnChange подписывает fn на публикации RadiusState
func (c *Controller) OnChange(fn func(domain.RadiusState)) {
	c.listeners = append(c.listeners, fn)
}

// Render отрисовывает окружность текущего радиуса
func (c *Controller) Render() {
	if c.closed {
		return
	}
	c.surface.RenderCircle(utils.CirclePolygon(c.center, float64(c.radius), c.circlePoints))
}

// PointerDown начинает перетаскивание. Возвращает false, если сессия не начата.
func (c *Controller) PointerDown(pos domain.GeoPoint) bool {
	if c.closed || c.state != StateIdle {
		return false
	}

	c.state = StateDragging
	c.surface.SetPanZoomEnabled(false)
	c.surface.SetBoundaryEmphasis(true)
	metrics.RadiusDragsStarted.Inc()

	c.logger.Debug("Radius drag started",
		zap.Float64("lat", pos.Lat),
		zap.Float64("lon", pos.Lon),
		zap.Int("radius_miles", c.radius))

	c.notify()
	return true
}

// PointerMove запоминает позицию указателя. Пересчет выполняется не чаще
// одного раза за кадр и только по последней позиции.
func (c *Controller) PointerMove(pos domain.GeoPoint) {
	if c.closed || c.state != StateDragging {
		return
	}
	metrics.RadiusPointerMoves.Inc()

	p := pos
	c.latest = &p

	if !c.framePending {
		c.framePending = true
		c.frameID = c.frames.RequestFrame(c.onFrame)
	}
}

// PointerUp завершает перетаскивание
func (c *Controller) PointerUp(pos domain.GeoPoint) {
	if c.closed || c.state != StateDragging {
		return
	}
	c.logger.Debug("Radius drag released",
		zap.Float64("lat", pos.Lat),
		zap.Float64("lon", pos.Lon))
	c.release()
}

// PointerLeave завершает перетаскивание, когда указатель покинул карту
func (c *Controller) PointerLeave() {
	if c.closed || c.state != StateDragging {
		return
	}
	c.logger.Debug("Pointer left the map surface during drag")
	c.release()
}

// SetRadius задает радиус извне. Учитывается только в состоянии Idle.
func (c *Controller) SetRadius(radiusMiles int) bool {
	if c.closed || c.state != StateIdle {
		return false
	}
	c.publish(utils.ClampRadius(float64(radiusMiles)))
	return true
}

// Close освобождает карту. Дальнейшие события игнорируются.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.cancelFrame()
	if c.state == StateDragging {
		c.surface.SetPanZoomEnabled(true)
		c.surface.SetBoundaryEmphasis(false)
	}
	c.state = StateIdle
	c.closed = true
}

func (c *Controller) onFrame() {
	c.framePending = false
	if c.closed || c.state != StateDragging || c.latest == nil {
		return
	}

	pos := *c.latest
	c.latest = nil

	candidate := utils.DistanceMiles(c.center, pos)
	next := utils.ClampRadius(candidate)
	if next == c.radius {
		return
	}
	c.publish(next)
}

func (c *Controller) release() {
	c.cancelFrame()
	c.surface.SetPanZoomEnabled(true)
	c.surface.SetBoundaryEmphasis(false)

	c.state = StateSettling
	box := utils.FitBounds(c.center, float64(c.radius), c.fitPadding)
	c.surface.FitBounds(box, c.fitDuration)
	c.state = StateIdle

	c.logger.Debug("Radius settled", zap.Int("radius_miles", c.radius))
	c.notify()
}

func (c *Controller) publish(radiusMiles int) {
	c.radius = radiusMiles
	c.surface.RenderCircle(utils.CirclePolygon(c.center, float64(radiusMiles), c.circlePoints))
	metrics.RadiusPublished.Inc()
	c.notify()
}

func (c *Controller) cancelFrame() {
	if c.framePending {
		c.frames.CancelFrame(c.frameID)
		c.framePending = false
	}
	c.latest = nil
}

func (c *Controller) notify() {
	state := c.RadiusState()
	for _, fn := range c.listeners {
		fn(state)
	}
}
