package dto

import "github.com/deal-proximity/internal/domain"

// CompetitorDealsResponse - сделки-конкуренты в радиусе от референсной сделки
type CompetitorDealsResponse struct {
	DealID            string           `json:"deal_id"`
	Category          string           `json:"category"`
	Center            *domain.GeoPoint `json:"center,omitempty"`
	RadiusMiles       int              `json:"radius_miles"`
	AffordanceEnabled bool             `json:"affordance_enabled"`
	Total             int              `json:"total"`
	Summary           string           `json:"summary"`
	Deals             []CompetitorDeal `json:"deals"`
}

// CompetitorDeal - сделка-конкурент с расстоянием
type CompetitorDeal struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	MerchantName  string  `json:"merchant_name"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price"`
	SoldCount     int     `json:"sold_count"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	DistanceMiles float64 `json:"distance_miles"`
}

// CircleResponse - кольцо окружности в порядке [lon, lat] и область для fit
type CircleResponse struct {
	Points [][2]float64       `json:"points"`
	Bounds domain.BoundingBox `json:"bounds"`
}
