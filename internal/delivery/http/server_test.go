package http_test

import (
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deal-proximity/internal/config"
	httpDelivery "github.com/deal-proximity/internal/delivery/http"
	"github.com/deal-proximity/internal/delivery/http/handler"
	"github.com/deal-proximity/internal/delivery/http/ws"
)

func newTestServer() *httpDelivery.Server {
	logger := zap.NewNop()
	return httpDelivery.NewServer(
		&config.Config{},
		logger,
		handler.NewProximityHandler(nil, logger),
		ws.NewRadiusHandler(nil, ws.SessionConfig{}, logger),
	)
}

func TestServer_Health(t *testing.T) {
	app := newTestServer().App()

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"healthy"`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServer_Metrics(t *testing.T) {
	app := newTestServer().App()

	_, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "deal_proximity_http_requests_total"))
}

func TestServer_RadiusRequiresUpgrade(t *testing.T) {
	app := newTestServer().App()

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/ws/deals/5b1f0f2e-8c1a-4a53-9a43-4f7c1f0a2b10/radius", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUpgradeRequired, resp.StatusCode)
}

func TestServer_UnknownRoute(t *testing.T) {
	app := newTestServer().App()

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/api/v1/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}
