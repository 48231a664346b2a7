package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutEnvFile(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5*time.Minute, cfg.Cache.DealsCacheTTL)
	assert.Equal(t, 10, cfg.Proximity.DefaultRadius)
	assert.Equal(t, 64, cfg.Proximity.CirclePoints)
	assert.Equal(t, 0.2, cfg.Proximity.FitPadding)
	assert.Equal(t, 800*time.Millisecond, cfg.Proximity.FitDuration)
	assert.Equal(t, 16*time.Millisecond, cfg.Proximity.FrameInterval)
	assert.Equal(t, "deal-cache-invalidators", cfg.Worker.ConsumerGroup)
	assert.Equal(t, 3, cfg.Worker.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Worker.PendingRetryInterval)
}

func TestLoad_EnvFileAndEnvironment(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	chdir(t, dir)

	env := "API_HOST=127.0.0.1\nAPI_PORT=9090\nREDIS_HOST=cache\nREDIS_PORT=6380\nPROXIMITY_DEFAULT_RADIUS=25\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Setenv("PROXIMITY_FIT_DURATION_MS", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.GetServerAddr())
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
	assert.Equal(t, 25, cfg.Proximity.DefaultRadius)
	assert.Equal(t, 500*time.Millisecond, cfg.Proximity.FitDuration)

	// Streams fall back to the main Redis
	assert.Equal(t, "cache", cfg.RedisStreams.Host)
	assert.Equal(t, 6380, cfg.RedisStreams.Port)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir for Go < 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
