package ws

import (
	"encoding/json"
	"fmt"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/usecase"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Типы сообщений клиента
const (
	msgPointerDown  = "pointerdown"
	msgPointerMove  = "pointermove"
	msgPointerUp    = "pointerup"
	msgPointerLeave = "pointerleave"
	msgSetRadius    = "set_radius"
)

// Типы сообщений сервера
const (
	msgState     = "state"
	msgCircle    = "circle"
	msgMarkers   = "markers"
	msgPanZoom   = "pan_zoom"
	msgBoundary  = "boundary"
	msgFitBounds = "fit_bounds"
	msgError     = "error"
)

// clientMessage - событие указателя или установка радиуса от карты
type clientMessage struct {
	Type   string  `json:"type"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Radius int     `json:"radius"`
}

func (m clientMessage) position() domain.GeoPoint {
	return domain.GeoPoint{Lat: m.Lat, Lon: m.Lon}
}

// serverMessage - конверт всех сообщений сервера
type serverMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type statePayload struct {
	DealID            string `json:"deal_id"`
	RadiusMiles       int    `json:"radius_miles"`
	Dragging          bool   `json:"dragging"`
	Count             int    `json:"count"`
	Summary           string `json:"summary"`
	AffordanceEnabled bool   `json:"affordance_enabled"`
}

type panZoomPayload struct {
	Enabled bool `json:"enabled"`
}

type boundaryPayload struct {
	Emphasized bool `json:"emphasized"`
}

type fitBoundsPayload struct {
	Bounds     domain.BoundingBox `json:"bounds"`
	DurationMS int64              `json:"duration_ms"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// encodeCircle кодирует кольцо окружности как GeoJSON Polygon
func encodeCircle(circle domain.CirclePolygon) (json.RawMessage, error) {
	ring := make([]geom.Coord, 0, len(circle))
	for _, p := range circle {
		ring = append(ring, geom.Coord{p.Lon, p.Lat})
	}

	polygon, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	if err != nil {
		return nil, fmt.Errorf("build circle polygon: %w", err)
	}

	data, err := geojson.Marshal(polygon)
	if err != nil {
		return nil, fmt.Errorf("encode circle polygon: %w", err)
	}
	return data, nil
}

// encodeMarkers кодирует результаты как GeoJSON FeatureCollection точек
func encodeMarkers(results []domain.ProximityResult) (json.RawMessage, error) {
	fc := geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(results)),
	}

	for i, r := range results {
		location, ok := usecase.ResolveLocation(r.Deal)
		if !ok {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       r.Deal.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{location.Lon, location.Lat}),
			Properties: map[string]interface{}{
				"rank":           i + 1,
				"title":          r.Deal.Title,
				"merchant_name":  r.Deal.MerchantName,
				"category":       r.Deal.Category,
				"price":          r.Deal.Price,
				"distance_miles": r.DistanceMiles,
			},
		})
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, fmt.Errorf("encode markers: %w", err)
	}
	return data, nil
}
