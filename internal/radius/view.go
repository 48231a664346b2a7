package radius

import (
	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/pkg/utils"
	"github.com/deal-proximity/internal/usecase"
	"go.uber.org/zap"
)

// ViewConfig - референсная сделка, вокруг которой ищутся конкуренты
type ViewConfig struct {
	DealID        string
	Category      string
	Center        *domain.GeoPoint
	DefaultRadius int
	Options       []Option
}

// ViewSnapshot - состояние представления для отображения
type ViewSnapshot struct {
	Radius            domain.RadiusState
	Count             int
	Summary           string
	AffordanceEnabled bool
}

// CompetitorView держит реактивный список конкурентов: он пересчитывается
// при смене центра, сделок, категории или радиуса и перерисовывается на карте.
// Как и Controller, используется из одной горутины.
type CompetitorView struct {
	surface MapSurface
	frames  FrameScheduler
	logger  *zap.Logger
	options []Option

	dealID     string
	category   string
	center     *domain.GeoPoint
	deals      []domain.Deal
	radius     int
	controller *Controller
	closed     bool

	results   []domain.ProximityResult
	listeners []func(ViewSnapshot)
}

// NewCompetitorView создает представление и сразу рассчитывает результат.
// Отрисовка на карте выполняется вызовом Render.
func NewCompetitorView(
	cfg ViewConfig,
	deals []domain.Deal,
	surface MapSurface,
	frames FrameScheduler,
	logger *zap.Logger,
) *CompetitorView {
	v := &CompetitorView{
		surface:  surface,
		frames:   frames,
		logger:   logger,
		options:  cfg.Options,
		dealID:   cfg.DealID,
		category: cfg.Category,
		deals:    deals,
		radius:   utils.ClampRadius(float64(cfg.DefaultRadius)),
	}
	v.attach(cfg.Center)
	v.recompute()
	return v
}

// AffordanceEnabled - доступен ли селектор радиуса (есть ли центр)
func (v *CompetitorView) AffordanceEnabled() bool {
	return v.controller != nil
}

// Controller возвращает контроллер перетаскивания или nil без центра
func (v *CompetitorView) Controller() *Controller {
	return v.controller
}

// Results возвращает текущий результат. Срез нельзя изменять.
func (v *CompetitorView) Results() []domain.ProximityResult {
	return v.results
}

// RadiusState возвращает состояние радиуса
func (v *CompetitorView) RadiusState() domain.RadiusState {
	if v.controller != nil {
		return v.controller.RadiusState()
	}
	return domain.RadiusState{RadiusMiles: v.radius}
}

// Summary возвращает подпись вида "Competitor deals in N miles: K"
func (v *CompetitorView) Summary() string {
	return usecase.ProximitySummary(v.RadiusState().RadiusMiles, len(v.results))
}

// Snapshot возвращает состояние для отображения
func (v *CompetitorView) Snapshot() ViewSnapshot {
	return ViewSnapshot{
		Radius:            v.RadiusState(),
		Count:             len(v.results),
		Summary:           v.Summary(),
		AffordanceEnabled: v.AffordanceEnabled(),
	}
}

// OnUpdate подписывает fn на изменения представления
func (v *CompetitorView) OnUpdate(fn func(ViewSnapshot)) {
	v.listeners = append(v.listeners, fn)
}

// Render отрисовывает окружность и маркеры
func (v *CompetitorView) Render() {
	if v.closed {
		return
	}
	if v.controller != nil {
		v.controller.Render()
	}
	v.surface.RenderMarkers(v.results)
	v.notify()
}

// SetDeals заменяет список сделок-кандидатов
func (v *CompetitorView) SetDeals(deals []domain.Deal) {
	if v.closed {
		return
	}
	v.deals = deals
	v.refresh()
}

// SetCategory меняет фильтр категории
func (v *CompetitorView) SetCategory(category string) {
	if v.closed || category == v.category {
		return
	}
	v.category = category
	v.refresh()
}

// SetCenter меняет центр. Активное перетаскивание прерывается,
// nil отключает селектор радиуса.
func (v *CompetitorView) SetCenter(center *domain.GeoPoint) {
	if v.closed {
		return
	}
	if v.controller != nil {
		v.radius = v.controller.RadiusState().RadiusMiles
		v.controller.Close()
		v.controller = nil
	}
	v.attach(center)
	if v.controller != nil {
		v.controller.Render()
	}
	v.refresh()
}

// PointerDown передает событие контроллеру
func (v *CompetitorView) PointerDown(pos domain.GeoPoint) bool {
	if v.controller == nil {
		return false
	}
	return v.controller.PointerDown(pos)
}

// PointerMove передает событие контроллеру
func (v *CompetitorView) PointerMove(pos domain.GeoPoint) {
	if v.controller != nil {
		v.controller.PointerMove(pos)
	}
}

// PointerUp передает событие контроллеру
func (v *CompetitorView) PointerUp(pos domain.GeoPoint) {
	if v.controller != nil {
		v.controller.PointerUp(pos)
	}
}

// PointerLeave передает событие контроллеру
func (v *CompetitorView) PointerLeave() {
	if v.controller != nil {
		v.controller.PointerLeave()
	}
}

// SetRadius задает радиус вне перетаскивания
func (v *CompetitorView) SetRadius(radiusMiles int) bool {
	if v.controller == nil {
		return false
	}
	return v.controller.SetRadius(radiusMiles)
}

// Close освобождает карту. После Close представление не меняется и ничего не рисует.
func (v *CompetitorView) Close() {
	if v.closed {
		return
	}
	v.closed = true
	if v.controller != nil {
		v.controller.Close()
	}
	v.listeners = nil
}

func (v *CompetitorView) attach(center *domain.GeoPoint) {
	v.center = center

	controller, err := NewController(center, v.radius, v.surface, v.frames, v.logger, v.options...)
	if err != nil {
		v.logger.Debug("Radius selector disabled", zap.String("deal_id", v.dealID), zap.Error(err))
		return
	}
	controller.OnChange(v.onRadiusChange)
	v.controller = controller
}

func (v *CompetitorView) onRadiusChange(state domain.RadiusState) {
	if state.RadiusMiles != v.radius {
		v.radius = state.RadiusMiles
		v.refresh()
		return
	}
	v.notify()
}

func (v *CompetitorView) recompute() {
	if v.center == nil {
		v.results = []domain.ProximityResult{}
		return
	}
	v.results = usecase.FilterWithinRadius(*v.center, v.deals, v.dealID, v.category, float64(v.radius))
}

func (v *CompetitorView) refresh() {
	v.recompute()
	v.surface.RenderMarkers(v.results)
	v.notify()
}

func (v *CompetitorView) notify() {
	snapshot := v.Snapshot()
	for _, fn := range v.listeners {
		fn(snapshot)
	}
}
