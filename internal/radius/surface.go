package radius

import (
	"time"

	"github.com/deal-proximity/internal/domain"
)

// MapSurface - граница с картографическим клиентом. Контроллер и представление
// знают о карте только через этот интерфейс.
type MapSurface interface {
	// SetPanZoomEnabled включает или выключает перетаскивание и масштабирование карты
	SetPanZoomEnabled(enabled bool)

	// SetBoundaryEmphasis подсвечивает границу окружности во время перетаскивания
	SetBoundaryEmphasis(emphasized bool)

	// RenderCircle заменяет отображаемый полигон окружности
	RenderCircle(circle domain.CirclePolygon)

	// RenderMarkers заменяет маркеры сделок-конкурентов
	RenderMarkers(results []domain.ProximityResult)

	// FitBounds анимирует вьюпорт к области. Не ждёт окончания анимации.
	FitBounds(box domain.BoundingBox, duration time.Duration)
}

// FrameID идентифицирует запрошенный кадр
type FrameID uint64

// FrameScheduler откладывает работу до следующего кадра
type FrameScheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}
