package dto

// CompetitorDealsRequest - запрос сделок-конкурентов вокруг сделки
type CompetitorDealsRequest struct {
	DealID      string `json:"deal_id" validate:"required,uuid"`
	RadiusMiles int    `json:"radius_miles" validate:"omitempty"`
}

// CircleRequest - запрос полигона окружности радиуса
type CircleRequest struct {
	Lat         float64 `json:"lat" validate:"latitude"`
	Lon         float64 `json:"lon" validate:"longitude"`
	RadiusMiles float64 `json:"radius_miles" validate:"gte=0,lte=50"`
	Points      int     `json:"points" validate:"omitempty,min=3,max=720"`
}
