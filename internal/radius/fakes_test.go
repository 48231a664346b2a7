package radius_test

import (
	"math"
	"time"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/radius"
)

var chicago = domain.GeoPoint{Lat: 41.8781, Lon: -87.6298}

// northOf returns a point exactly miles north of center along the meridian
func northOf(center domain.GeoPoint, miles float64) domain.GeoPoint {
	return domain.GeoPoint{
		Lat: center.Lat + miles/3959.0*180/math.Pi,
		Lon: center.Lon,
	}
}

// manualFrames runs requested frames only when flush is called
type manualFrames struct {
	next      radius.FrameID
	pending   map[radius.FrameID]func()
	requested int
	cancelled []radius.FrameID
}

func newManualFrames() *manualFrames {
	return &manualFrames{pending: make(map[radius.FrameID]func())}
}

func (f *manualFrames) RequestFrame(fn func()) radius.FrameID {
	f.next++
	f.requested++
	f.pending[f.next] = fn
	return f.next
}

func (f *manualFrames) CancelFrame(id radius.FrameID) {
	f.cancelled = append(f.cancelled, id)
	delete(f.pending, id)
}

func (f *manualFrames) flush() {
	batch := f.pending
	f.pending = make(map[radius.FrameID]func())
	for id := radius.FrameID(1); id <= f.next; id++ {
		if fn, ok := batch[id]; ok {
			fn()
		}
	}
}

type fitCall struct {
	box      domain.BoundingBox
	duration time.Duration
}

// recordingSurface records every call made to the map surface
type recordingSurface struct {
	panZoom   []bool
	emphasis  []bool
	circles   []domain.CirclePolygon
	markers   [][]domain.ProximityResult
	fitBounds []fitCall
}

func (s *recordingSurface) SetPanZoomEnabled(enabled bool) {
	s.panZoom = append(s.panZoom, enabled)
}

func (s *recordingSurface) SetBoundaryEmphasis(emphasized bool) {
	s.emphasis = append(s.emphasis, emphasized)
}

func (s *recordingSurface) RenderCircle(circle domain.CirclePolygon) {
	s.circles = append(s.circles, circle)
}

func (s *recordingSurface) RenderMarkers(results []domain.ProximityResult) {
	s.markers = append(s.markers, results)
}

func (s *recordingSurface) FitBounds(box domain.BoundingBox, duration time.Duration) {
	s.fitBounds = append(s.fitBounds, fitCall{box: box, duration: duration})
}

func (s *recordingSurface) lastPanZoom() (bool, bool) {
	if len(s.panZoom) == 0 {
		return false, false
	}
	return s.panZoom[len(s.panZoom)-1], true
}
