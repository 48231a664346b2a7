package ws

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/usecase"
)

var chicago = domain.GeoPoint{Lat: 41.8781, Lon: -87.6298}

func northOf(center domain.GeoPoint, miles float64) domain.GeoPoint {
	return domain.GeoPoint{
		Lat: center.Lat + miles/3959.0*180/math.Pi,
		Lon: center.Lon,
	}
}

func dealNorth(id string, miles float64) domain.Deal {
	p := northOf(chicago, miles)
	return domain.Deal{
		ID:       id,
		Title:    "Deal " + id,
		Category: "Food & Drink",
		Locations: []domain.DealLocation{
			{ID: id + "-loc", Coordinates: &p, IsActive: true},
		},
	}
}

type recorded struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// fakeConn collects messages written by the session
type fakeConn struct {
	mu       sync.Mutex
	messages []recorded
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	var m recorded
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	f.mu.Lock()
	f.messages = append(f.messages, m)
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.Type)
	}
	return out
}

func (f *fakeConn) last(msgType string) (recorded, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].Type == msgType {
			return f.messages[i], true
		}
	}
	return recorded{}, false
}

func (f *fakeConn) count(msgType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.messages {
		if m.Type == msgType {
			n++
		}
	}
	return n
}

func lastState(t *testing.T, conn *fakeConn) statePayload {
	t.Helper()
	m, ok := conn.last(msgState)
	require.True(t, ok, "no state message")
	var s statePayload
	require.NoError(t, json.Unmarshal(m.Data, &s))
	return s
}

func testSessionConfig() SessionConfig {
	return SessionConfig{
		CirclePoints:  16,
		FitPadding:    0.2,
		FitDuration:   800 * time.Millisecond,
		FrameInterval: 2 * time.Millisecond,
	}
}

func startSession(t *testing.T, ref *usecase.ReferenceContext) (*session, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	logger := zap.NewNop()

	s := newSession("test-session", ref, 10, testSessionConfig(), newSender(conn, logger), logger)
	s.start(context.Background())
	t.Cleanup(s.close)

	require.Eventually(t, func() bool {
		return conn.count(msgState) > 0
	}, time.Second, 2*time.Millisecond)

	return s, conn
}

func chicagoReference() *usecase.ReferenceContext {
	center := chicago
	return &usecase.ReferenceContext{
		Deal:   domain.Deal{ID: "ref", Category: "Food & Drink"},
		Center: &center,
		Candidates: []domain.Deal{
			dealNorth("f2", 2),
			dealNorth("f4", 4),
			dealNorth("f9", 9),
			dealNorth("f11", 11),
		},
	}
}

func TestSession_InitialRender(t *testing.T) {
	_, conn := startSession(t, chicagoReference())

	assert.Equal(t, []string{msgCircle, msgMarkers, msgState}, conn.types())

	state := lastState(t, conn)
	assert.Equal(t, statePayload{
		DealID:            "ref",
		RadiusMiles:       10,
		Count:             3,
		Summary:           "Competitor deals in 10 miles: 3",
		AffordanceEnabled: true,
	}, state)
}

func TestSession_DisabledWithoutCenter(t *testing.T) {
	ref := &usecase.ReferenceContext{
		Deal:       domain.Deal{ID: "ref", Category: "Food & Drink"},
		Candidates: []domain.Deal{},
	}
	s, conn := startSession(t, ref)

	assert.Equal(t, []string{msgMarkers, msgState}, conn.types())
	assert.False(t, lastState(t, conn).AffordanceEnabled)

	s.handle([]byte(`{"type":"pointerdown","lat":41.9,"lon":-87.6}`))
	s.handle([]byte(`{"type":"pointermove","lat":42.5,"lon":-87.6}`))

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, conn.count(msgPanZoom))
	assert.Zero(t, conn.count(msgCircle))
}

func TestSession_DragLifecycle(t *testing.T) {
	s, conn := startSession(t, chicagoReference())

	start := northOf(chicago, 10)
	s.handle(mustJSON(t, clientMessage{Type: msgPointerDown, Lat: start.Lat, Lon: start.Lon}))

	require.Eventually(t, func() bool {
		return lastState(t, conn).Dragging
	}, time.Second, 2*time.Millisecond)

	panZoom, ok := conn.last(msgPanZoom)
	require.True(t, ok)
	assert.JSONEq(t, `{"enabled":false}`, string(panZoom.Data))
	boundary, ok := conn.last(msgBoundary)
	require.True(t, ok)
	assert.JSONEq(t, `{"emphasized":true}`, string(boundary.Data))

	for i := 1; i <= 20; i++ {
		p := northOf(chicago, 10+float64(i)*0.1)
		s.handle(mustJSON(t, clientMessage{Type: msgPointerMove, Lat: p.Lat, Lon: p.Lon}))
	}

	require.Eventually(t, func() bool {
		return lastState(t, conn).RadiusMiles == 12
	}, time.Second, 2*time.Millisecond)
	assert.Equal(t, 4, lastState(t, conn).Count)

	end := northOf(chicago, 12)
	s.handle(mustJSON(t, clientMessage{Type: msgPointerUp, Lat: end.Lat, Lon: end.Lon}))

	require.Eventually(t, func() bool {
		return conn.count(msgFitBounds) == 1
	}, time.Second, 2*time.Millisecond)

	fit, _ := conn.last(msgFitBounds)
	var payload fitBoundsPayload
	require.NoError(t, json.Unmarshal(fit.Data, &payload))
	assert.Equal(t, int64(800), payload.DurationMS)
	assert.Less(t, payload.Bounds.MinLat, chicago.Lat)

	state := lastState(t, conn)
	assert.False(t, state.Dragging)
	assert.Equal(t, 12, state.RadiusMiles)
	assert.Equal(t, "Competitor deals in 12 miles: 4", state.Summary)

	panZoom, _ = conn.last(msgPanZoom)
	assert.JSONEq(t, `{"enabled":true}`, string(panZoom.Data))
}

func TestSession_SetRadius(t *testing.T) {
	s, conn := startSession(t, chicagoReference())

	s.handle([]byte(`{"type":"set_radius","radius":3}`))

	require.Eventually(t, func() bool {
		return lastState(t, conn).RadiusMiles == 3
	}, time.Second, 2*time.Millisecond)
	assert.Equal(t, 1, lastState(t, conn).Count)
}

func TestSession_RejectsBadMessages(t *testing.T) {
	s, conn := startSession(t, chicagoReference())

	s.handle([]byte(`not json`))
	s.handle([]byte(`{"type":"teleport"}`))
	s.handle([]byte(`{"type":"pointerdown","lat":123,"lon":0}`))

	require.Equal(t, 3, conn.count(msgError))

	m, _ := conn.last(msgError)
	var e errorPayload
	require.NoError(t, json.Unmarshal(m.Data, &e))
	assert.Equal(t, "INVALID_COORDINATES", e.Code)
}

func TestSession_CloseDuringDragReleasesMap(t *testing.T) {
	conn := &fakeConn{}
	logger := zap.NewNop()
	s := newSession("test-session", chicagoReference(), 10, testSessionConfig(), newSender(conn, logger), logger)
	s.start(context.Background())

	start := northOf(chicago, 10)
	s.handle(mustJSON(t, clientMessage{Type: msgPointerDown, Lat: start.Lat, Lon: start.Lon}))
	s.close()

	panZoom, ok := conn.last(msgPanZoom)
	require.True(t, ok)
	assert.JSONEq(t, `{"enabled":true}`, string(panZoom.Data))

	s.handle([]byte(`{"type":"pointerup","lat":41.9,"lon":-87.6}`))
	assert.Zero(t, conn.count(msgFitBounds))
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
