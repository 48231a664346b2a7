package usecase

import (
	"sort"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/pkg/utils"
)

// ResolveLocation выбирает основную точку сделки: первую активную и не черновую
// локацию, иначе первую локацию с координатами.
func ResolveLocation(deal domain.Deal) (domain.GeoPoint, bool) {
	var fallback *domain.GeoPoint
	for _, loc := range deal.Locations {
		if loc.Coordinates == nil {
			continue
		}
		if loc.IsActive && !loc.IsDraft {
			return *loc.Coordinates, true
		}
		if fallback == nil {
			fallback = loc.Coordinates
		}
	}

	if fallback == nil {
		return domain.GeoPoint{}, false
	}
	return *fallback, true
}

// FilterWithinRadius возвращает сделки категории category в радиусе radiusMiles
// от center, отсортированные по возрастанию расстояния. Сделка excludeID в
// результат не попадает. Равные расстояния сохраняют порядок входа.
func FilterWithinRadius(
	center domain.GeoPoint,
	deals []domain.Deal,
	excludeID string,
	category string,
	radiusMiles float64,
) []domain.ProximityResult {
	results := make([]domain.ProximityResult, 0)

	for _, deal := range deals {
		if deal.ID == excludeID {
			continue
		}
		if deal.Category != category {
			continue
		}

		location, ok := ResolveLocation(deal)
		if !ok {
			continue
		}

		distance := utils.DistanceMiles(center, location)
		if distance > radiusMiles {
			continue
		}

		results = append(results, domain.ProximityResult{
			Deal:          deal,
			DistanceMiles: distance,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMiles < results[j].DistanceMiles
	})

	return results
}
