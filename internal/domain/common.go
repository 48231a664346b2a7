package domain

// GeoPoint - географическая точка в градусах WGS84
type GeoPoint struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// BoundingBox - прямоугольная область на карте
type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon"`
}

// CirclePolygon - замкнутое кольцо точек, аппроксимирующее окружность.
// Первая и последняя точки совпадают. Каждая регенерация создаёт новый слайс.
type CirclePolygon []GeoPoint

const (
	// MinRadiusMiles - минимальный радиус поиска конкурентов
	MinRadiusMiles = 1
	// MaxRadiusMiles - максимальный радиус поиска конкурентов
	MaxRadiusMiles = 50
	// DefaultCirclePoints - количество сегментов окружности по умолчанию
	DefaultCirclePoints = 64
)
