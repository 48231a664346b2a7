package handler

import (
	"context"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/pkg/errors"
	"github.com/deal-proximity/internal/pkg/utils"
	"github.com/deal-proximity/internal/pkg/validator"
	"github.com/deal-proximity/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProximityService - операции поиска конкурентов, нужные обработчику
type ProximityService interface {
	CompetitorDeals(ctx context.Context, req dto.CompetitorDealsRequest) (*dto.CompetitorDealsResponse, error)
	Circle(req dto.CircleRequest) (*dto.CircleResponse, error)
	Categories(ctx context.Context) ([]domain.DealCategory, error)
}

// ProximityHandler - обработчик запросов сделок-конкурентов
type ProximityHandler struct {
	proximityUC ProximityService
	logger      *zap.Logger
}

// NewProximityHandler - создание нового ProximityHandler
func NewProximityHandler(proximityUC ProximityService, logger *zap.Logger) *ProximityHandler {
	return &ProximityHandler{
		proximityUC: proximityUC,
		logger:      logger,
	}
}

// GetCompetitorDeals godoc
// @Summary Сделки-конкуренты в радиусе
// @Description Сделки той же категории в радиусе от основной локации сделки, по возрастанию расстояния
// @Tags proximity
// @Produce json
// @Param id path string true "ID сделки (UUID)"
// @Param radius query int false "Радиус в милях (1-50)"
// @Success 200 {object} utils.SuccessResponse{data=dto.CompetitorDealsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/deals/{id}/competitors [get]
func (h *ProximityHandler) GetCompetitorDeals(c *fiber.Ctx) error {
	req := dto.CompetitorDealsRequest{
		DealID:      c.Params("id"),
		RadiusMiles: c.QueryInt("radius", 0),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidDealID.WithDetails(validator.Details(err)))
	}

	result, err := h.proximityUC.CompetitorDeals(c.Context(), req)
	if err != nil {
		h.logger.Debug("Competitor deals lookup failed",
			zap.String("deal_id", req.DealID),
			zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// BuildCircle godoc
// @Summary Полигон окружности радиуса
// @Description Замкнутое кольцо [lon, lat] вокруг центра и область подгонки карты
// @Tags proximity
// @Accept json
// @Produce json
// @Param request body dto.CircleRequest true "Центр и радиус"
// @Success 200 {object} utils.SuccessResponse{data=dto.CircleResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/geo/circle [post]
func (h *ProximityHandler) BuildCircle(c *fiber.Ctx) error {
	var req dto.CircleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		details := validator.Details(err)
		if _, ok := details["Lat"]; ok {
			return utils.SendError(c, errors.ErrInvalidCoordinates.WithDetails(details))
		}
		if _, ok := details["Lon"]; ok {
			return utils.SendError(c, errors.ErrInvalidCoordinates.WithDetails(details))
		}
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(details))
	}

	result, err := h.proximityUC.Circle(req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: len(result.Points),
	})
}

// GetCategories godoc
// @Summary Категории сделок
// @Tags proximity
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.DealCategory}
// @Router /api/v1/categories [get]
func (h *ProximityHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.proximityUC.Categories(c.Context())
	if err != nil {
		return utils.SendError(c, errors.ErrDatabaseError)
	}

	return utils.SendSuccess(c, categories, &utils.Meta{
		Total: len(categories),
	})
}
