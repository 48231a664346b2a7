package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deal-proximity/internal/pkg/utils"
	"github.com/deal-proximity/internal/radius"
	"github.com/deal-proximity/internal/usecase"
	"go.uber.org/zap"
)

// SessionConfig - параметры интерактивной сессии
type SessionConfig struct {
	CirclePoints  int
	FitPadding    float64
	FitDuration   time.Duration
	FrameInterval time.Duration
}

// session связывает одно websocket-соединение с CompetitorView.
// Представление живет только в горутине FrameLoop.
type session struct {
	id     string
	ref    *usecase.ReferenceContext
	radius int
	cfg    SessionConfig
	out    *sender
	loop   *radius.FrameLoop
	logger *zap.Logger

	view *radius.CompetitorView
}

func newSession(
	id string,
	ref *usecase.ReferenceContext,
	defaultRadius int,
	cfg SessionConfig,
	out *sender,
	logger *zap.Logger,
) *session {
	return &session{
		id:     id,
		ref:    ref,
		radius: defaultRadius,
		cfg:    cfg,
		out:    out,
		loop:   radius.NewFrameLoop(logger, cfg.FrameInterval),
		logger: logger,
	}
}

// start запускает цикл и отрисовывает начальное состояние
func (s *session) start(ctx context.Context) {
	s.loop.Start(ctx)
	s.loop.Post(s.attach)
}

func (s *session) attach() {
	surface := &surface{out: s.out, logger: s.logger}

	s.view = radius.NewCompetitorView(radius.ViewConfig{
		DealID:        s.ref.Deal.ID,
		Category:      s.ref.Deal.Category,
		Center:        s.ref.Center,
		DefaultRadius: s.radius,
		Options: []radius.Option{
			radius.WithCirclePoints(s.cfg.CirclePoints),
			radius.WithFitPadding(s.cfg.FitPadding),
			radius.WithFitDuration(s.cfg.FitDuration),
		},
	}, s.ref.Candidates, surface, s.loop, s.logger)

	s.view.OnUpdate(s.sendState)
	s.view.Render()
}

func (s *session) sendState(snapshot radius.ViewSnapshot) {
	s.out.send(msgState, statePayload{
		DealID:            s.ref.Deal.ID,
		RadiusMiles:       snapshot.Radius.RadiusMiles,
		Dragging:          snapshot.Radius.IsDragging,
		Count:             snapshot.Count,
		Summary:           snapshot.Summary,
		AffordanceEnabled: snapshot.AffordanceEnabled,
	})
}

// handle разбирает сообщение клиента и передает его в цикл сессии
func (s *session) handle(raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.out.sendError("INVALID_MESSAGE", "invalid JSON")
		return
	}

	switch msg.Type {
	case msgPointerDown, msgPointerMove, msgPointerUp:
		if !utils.ValidateCoordinates(msg.Lat, msg.Lon) {
			s.out.sendError("INVALID_COORDINATES", "Invalid coordinates provided")
			return
		}
	case msgPointerLeave, msgSetRadius:
	default:
		s.out.sendError("UNKNOWN_MESSAGE", "unknown message type: "+msg.Type)
		return
	}

	s.loop.Post(func() { s.dispatch(msg) })
}

func (s *session) dispatch(msg clientMessage) {
	if s.view == nil {
		return
	}

	switch msg.Type {
	case msgPointerDown:
		s.view.PointerDown(msg.position())
	case msgPointerMove:
		s.view.PointerMove(msg.position())
	case msgPointerUp:
		s.view.PointerUp(msg.position())
	case msgPointerLeave:
		s.view.PointerLeave()
	case msgSetRadius:
		if !s.view.SetRadius(msg.Radius) {
			s.logger.Debug("Radius change ignored",
				zap.String("session_id", s.id),
				zap.Int("radius", msg.Radius))
		}
	}
}

// close освобождает карту и останавливает цикл
func (s *session) close() {
	s.loop.Post(func() {
		if s.view != nil {
			s.view.Close()
		}
	})
	s.loop.Stop()
}
