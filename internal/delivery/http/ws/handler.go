package ws

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/deal-proximity/internal/pkg/errors"
	"github.com/deal-proximity/internal/pkg/metrics"
	"github.com/deal-proximity/internal/pkg/utils"
	"github.com/deal-proximity/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReferenceLoader загружает референсную сделку сессии
type ReferenceLoader interface {
	LoadReference(ctx context.Context, dealID string) (*usecase.ReferenceContext, error)
	DefaultRadius() int
}

// RadiusHandler - websocket-сессии селектора радиуса
type RadiusHandler struct {
	loader ReferenceLoader
	cfg    SessionConfig
	logger *zap.Logger
}

// NewRadiusHandler - создание нового RadiusHandler
func NewRadiusHandler(loader ReferenceLoader, cfg SessionConfig, logger *zap.Logger) *RadiusHandler {
	return &RadiusHandler{
		loader: loader,
		cfg:    cfg,
		logger: logger,
	}
}

// Upgrade пропускает дальше только websocket-запросы с корректным id сделки
func (h *RadiusHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if _, err := uuid.Parse(c.Params("id")); err != nil {
		return utils.SendError(c, errors.ErrInvalidDealID)
	}
	return c.Next()
}

// Handle возвращает обработчик соединения
func (h *RadiusHandler) Handle() fiber.Handler {
	return websocket.New(h.serve)
}

func (h *RadiusHandler) serve(c *websocket.Conn) {
	defer c.Close()

	sessionID := uuid.New().String()
	dealID := c.Params("id")
	logger := h.logger.With(
		zap.String("session_id", sessionID),
		zap.String("deal_id", dealID),
	)

	out := newSender(c, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ref, err := h.loader.LoadReference(ctx, dealID)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			out.sendError(appErr.Code, appErr.Message)
		} else {
			logger.Error("Failed to load reference deal", zap.Error(err))
			out.sendError(errors.ErrInternalServer.Code, errors.ErrInternalServer.Message)
		}
		return
	}

	defaultRadius := h.loader.DefaultRadius()
	if r, err := strconv.Atoi(c.Query("radius")); err == nil {
		defaultRadius = utils.ClampRadius(float64(r))
	}

	metrics.RadiusSessionsActive.Inc()
	defer metrics.RadiusSessionsActive.Dec()

	logger.Info("Radius session opened",
		zap.Bool("affordance_enabled", ref.Center != nil),
		zap.Int("radius_miles", defaultRadius),
		zap.Int("candidates", len(ref.Candidates)))

	s := newSession(sessionID, ref, defaultRadius, h.cfg, out, logger)
	s.start(ctx)
	defer s.close()

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}
		s.handle(msg)
	}

	logger.Info("Radius session closed")
}
