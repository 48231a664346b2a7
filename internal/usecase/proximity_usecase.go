package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/domain/repository"
	"github.com/deal-proximity/internal/pkg/errors"
	"github.com/deal-proximity/internal/pkg/metrics"
	"github.com/deal-proximity/internal/pkg/utils"
	"github.com/deal-proximity/internal/usecase/dto"
	"go.uber.org/zap"
)

const defaultFitPadding = 0.2

// ReferenceContext - референсная сделка, её центр и кандидаты той же категории.
// Center == nil означает, что у сделки нет ни одной локации.
type ReferenceContext struct {
	Deal       domain.Deal
	Center     *domain.GeoPoint
	Candidates []domain.Deal
}

type ProximityUseCase struct {
	dealRepo      repository.DealRepository
	cacheRepo     repository.CacheRepository
	logger        *zap.Logger
	cacheTTL      time.Duration
	defaultRadius int
	circlePoints  int
}

func NewProximityUseCase(
	dealRepo repository.DealRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
	defaultRadius int,
	circlePoints int,
) *ProximityUseCase {
	return &ProximityUseCase{
		dealRepo:      dealRepo,
		cacheRepo:     cacheRepo,
		logger:        logger,
		cacheTTL:      cacheTTL,
		defaultRadius: utils.ClampRadius(float64(defaultRadius)),
		circlePoints:  circlePoints,
	}
}

// DefaultRadius - радиус, с которого стартует селектор
func (uc *ProximityUseCase) DefaultRadius() int {
	return uc.defaultRadius
}

// LoadReference загружает сделку и кандидатов её категории
func (uc *ProximityUseCase) LoadReference(ctx context.Context, dealID string) (*ReferenceContext, error) {
	deal, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	ref := &ReferenceContext{Deal: *deal}

	center, ok := ResolveLocation(*deal)
	if !ok {
		uc.logger.Debug("Deal has no resolvable location, selector disabled",
			zap.String("deal_id", dealID))
		ref.Candidates = []domain.Deal{}
		return ref, nil
	}
	ref.Center = &center

	candidates, err := uc.CategoryDeals(ctx, deal.Category)
	if err != nil {
		return nil, err
	}
	ref.Candidates = candidates

	return ref, nil
}

// CategoryDeals возвращает сделки категории, по возможности из кеша
func (uc *ProximityUseCase) CategoryDeals(ctx context.Context, category string) ([]domain.Deal, error) {
	cached, err := uc.cacheRepo.GetCategoryDeals(ctx, category)
	if err != nil {
		uc.logger.Warn("Failed to read deals from cache, falling back to database",
			zap.String("category", category),
			zap.Error(err))
	} else if cached != nil {
		metrics.CacheHits.WithLabelValues("category_deals").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("category_deals").Inc()

	deals, err := uc.dealRepo.ListByCategory(ctx, category)
	if err != nil {
		uc.logger.Error("Failed to list deals by category",
			zap.String("category", category),
			zap.Error(err))
		return nil, err
	}

	if err := uc.cacheRepo.SetCategoryDeals(ctx, category, deals, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache category deals",
			zap.String("category", category),
			zap.Error(err))
	}

	return deals, nil
}

// CompetitorDeals - сделки той же категории в радиусе от референсной сделки
func (uc *ProximityUseCase) CompetitorDeals(
	ctx context.Context,
	req dto.CompetitorDealsRequest,
) (*dto.CompetitorDealsResponse, error) {
	radius := uc.defaultRadius
	if req.RadiusMiles != 0 {
		radius = utils.ClampRadius(float64(req.RadiusMiles))
	}

	ref, err := uc.LoadReference(ctx, req.DealID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CompetitorDealsResponse{
		DealID:            ref.Deal.ID,
		Category:          ref.Deal.Category,
		Center:            ref.Center,
		RadiusMiles:       radius,
		AffordanceEnabled: ref.Center != nil,
		Deals:             []dto.CompetitorDeal{},
	}

	if ref.Center != nil {
		results := FilterWithinRadius(*ref.Center, ref.Candidates, ref.Deal.ID, ref.Deal.Category, float64(radius))
		for _, r := range results {
			resp.Deals = append(resp.Deals, toCompetitorDeal(r))
		}
	}

	resp.Total = len(resp.Deals)
	resp.Summary = ProximitySummary(radius, resp.Total)
	metrics.ProximityResults.Observe(float64(resp.Total))

	return resp, nil
}

// Circle строит полигон окружности и область для подгонки карты
func (uc *ProximityUseCase) Circle(req dto.CircleRequest) (*dto.CircleResponse, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}
	if req.RadiusMiles < 0 || req.RadiusMiles > domain.MaxRadiusMiles {
		return nil, errors.ErrInvalidRadius
	}

	points := req.Points
	if points == 0 {
		points = uc.circlePoints
	}

	center := domain.GeoPoint{Lat: req.Lat, Lon: req.Lon}
	ring := utils.CirclePolygon(center, req.RadiusMiles, points)

	coords := make([][2]float64, 0, len(ring))
	for _, p := range ring {
		coords = append(coords, [2]float64{p.Lon, p.Lat})
	}

	return &dto.CircleResponse{
		Points: coords,
		Bounds: utils.FitBounds(center, req.RadiusMiles, defaultFitPadding),
	}, nil
}

// Categories - таксономия категорий сделок
func (uc *ProximityUseCase) Categories(ctx context.Context) ([]domain.DealCategory, error) {
	categories, err := uc.dealRepo.ListCategories(ctx)
	if err != nil {
		uc.logger.Error("Failed to list deal categories", zap.Error(err))
		return nil, err
	}
	return categories, nil
}

// ProximitySummary - подпись над списком конкурентов
func ProximitySummary(radiusMiles, count int) string {
	return fmt.Sprintf("Competitor deals in %d miles: %d", radiusMiles, count)
}

func toCompetitorDeal(r domain.ProximityResult) dto.CompetitorDeal {
	location, _ := ResolveLocation(r.Deal)
	return dto.CompetitorDeal{
		ID:            r.Deal.ID,
		Title:         r.Deal.Title,
		MerchantName:  r.Deal.MerchantName,
		Category:      r.Deal.Category,
		Price:         r.Deal.Price,
		OriginalPrice: r.Deal.OriginalPrice,
		SoldCount:     r.Deal.SoldCount,
		Lat:           location.Lat,
		Lon:           location.Lon,
		DistanceMiles: r.DistanceMiles,
	}
}
