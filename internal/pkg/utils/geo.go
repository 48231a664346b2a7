package utils

import (
	"math"

	"github.com/deal-proximity/internal/domain"
)

const (
	earthRadiusMiles = 3959.0
	metersPerMile    = 1609.34
	metersPerDegree  = 111320.0
)

// DistanceMiles вычисляет расстояние по большому кругу (Haversine) в милях
func DistanceMiles(a, b domain.GeoPoint) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	lat1Rad := toRad(a.Lat)
	lat2Rad := toRad(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// CirclePolygon строит кольцо из points+1 точек вокруг center.
// Локальная равнопромежуточная аппроксимация с поправкой на сжатие долготы,
// годится для радиусов до 50 миль. points <= 0 означает 64 сегмента.
func CirclePolygon(center domain.GeoPoint, radiusMiles float64, points int) domain.CirclePolygon {
	if points <= 0 {
		points = domain.DefaultCirclePoints
	}

	radiusMeters := radiusMiles * metersPerMile
	metersPerDegreeLon := metersPerDegree * math.Cos(toRad(center.Lat))

	ring := make(domain.CirclePolygon, 0, points+1)
	for i := 0; i <= points; i++ {
		theta := float64(i) / float64(points) * 2 * math.Pi
		dx := radiusMeters * math.Cos(theta)
		dy := radiusMeters * math.Sin(theta)

		ring = append(ring, domain.GeoPoint{
			Lat: center.Lat + dy/metersPerDegree,
			Lon: center.Lon + dx/metersPerDegreeLon,
		})
	}

	return ring
}

// FitBounds возвращает область вокруг окружности с отступом padding (доля радиуса)
func FitBounds(center domain.GeoPoint, radiusMiles, padding float64) domain.BoundingBox {
	extentMeters := radiusMiles * (1 + padding) * metersPerMile
	latDelta := extentMeters / metersPerDegree
	lonDelta := extentMeters / (metersPerDegree * math.Cos(toRad(center.Lat)))

	return domain.BoundingBox{
		MinLat: center.Lat - latDelta,
		MinLon: center.Lon - lonDelta,
		MaxLat: center.Lat + latDelta,
		MaxLon: center.Lon + lonDelta,
	}
}

// ClampRadius приводит кандидата к целому числу миль в [MinRadiusMiles, MaxRadiusMiles]
func ClampRadius(candidate float64) int {
	if math.IsNaN(candidate) {
		return domain.MinRadiusMiles
	}
	clamped := math.Max(domain.MinRadiusMiles, math.Min(domain.MaxRadiusMiles, candidate))
	return int(math.Round(clamped))
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
