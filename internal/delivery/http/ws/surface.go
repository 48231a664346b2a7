package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/deal-proximity/internal/domain"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// messageWriter - часть *websocket.Conn, нужная для отправки
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// sender сериализует запись в соединение: пишут и цикл сессии, и читатель
type sender struct {
	mu     sync.Mutex
	conn   messageWriter
	logger *zap.Logger
}

func newSender(conn messageWriter, logger *zap.Logger) *sender {
	return &sender{conn: conn, logger: logger}
}

func (s *sender) send(msgType string, data interface{}) {
	payload, err := json.Marshal(serverMessage{Type: msgType, Data: data})
	if err != nil {
		s.logger.Error("Failed to encode websocket message",
			zap.String("type", msgType),
			zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.logger.Debug("Failed to write websocket message",
			zap.String("type", msgType),
			zap.Error(err))
	}
}

func (s *sender) sendError(code, message string) {
	s.send(msgError, errorPayload{Code: code, Message: message})
}

// surface - MapSurface поверх websocket: каждое действие карты уходит клиенту
type surface struct {
	out    *sender
	logger *zap.Logger
}

func (s *surface) SetPanZoomEnabled(enabled bool) {
	s.out.send(msgPanZoom, panZoomPayload{Enabled: enabled})
}

func (s *surface) SetBoundaryEmphasis(emphasized bool) {
	s.out.send(msgBoundary, boundaryPayload{Emphasized: emphasized})
}

func (s *surface) RenderCircle(circle domain.CirclePolygon) {
	data, err := encodeCircle(circle)
	if err != nil {
		s.logger.Error("Failed to render circle", zap.Error(err))
		return
	}
	s.out.send(msgCircle, data)
}

func (s *surface) RenderMarkers(results []domain.ProximityResult) {
	data, err := encodeMarkers(results)
	if err != nil {
		s.logger.Error("Failed to render markers", zap.Error(err))
		return
	}
	s.out.send(msgMarkers, data)
}

func (s *surface) FitBounds(box domain.BoundingBox, duration time.Duration) {
	s.out.send(msgFitBounds, fitBoundsPayload{
		Bounds:     box,
		DurationMS: duration.Milliseconds(),
	})
}
