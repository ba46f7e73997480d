package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mobile-next/desktopcli/computer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.ini"))
	require.NoError(t, err)

	assert.Equal(t, Default().Server, cfg.Server)
	assert.Equal(t, Default().Timing, cfg.Timing)
	assert.Empty(t, cfg.Path)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[server]
listen = 0.0.0.0:13000
cors = true

[executor]
normal_factor = 100
coordinate_policy = strict
admission = reject

[timing]
wait_ms = 3000

[screenshot]
format = jpeg
quality = 70
max_width = 1280
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "0.0.0.0:13000", cfg.Server.Listen)
	assert.True(t, cfg.Server.CORS)
	assert.Equal(t, float64(100), cfg.Executor.NormalFactor)
	assert.Equal(t, 3000, cfg.Timing.WaitMs)
	// untouched keys keep their defaults
	assert.Equal(t, 100, cfg.Timing.SettleDelayMs)
	assert.Equal(t, "jpeg", cfg.Screenshot.Format)
	assert.Equal(t, 1280, cfg.Screenshot.MaxWidth)

	opts := cfg.ExecutorOptions()
	assert.Equal(t, computer.PolicyStrict, opts.Coordinates)
	assert.Equal(t, computer.AdmissionReject, opts.Admission)
	assert.Equal(t, 3*time.Second, opts.Timing.Wait)
	assert.Equal(t, 300*time.Millisecond, opts.Timing.Trailing)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[server]\nlisten = localhost:13000\n")
	t.Setenv(EnvName("server", "listen"), "9000")
	t.Setenv(EnvName("timing", "trailing_delay_ms"), "0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Listen)
	assert.Equal(t, 0, cfg.Timing.TrailingDelayMs)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "DESKTOPCLI_EXECUTOR_NORMAL_FACTOR", EnvName("executor", "normal_factor"))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero normal factor", "[executor]\nnormal_factor = 0\n"},
		{"unknown policy", "[executor]\ncoordinate_policy = lenient\n"},
		{"unknown admission", "[executor]\nadmission = drop\n"},
		{"negative delay", "[timing]\nsettle_delay_ms = -1\n"},
		{"unknown format", "[screenshot]\nformat = gif\n"},
		{"quality out of range", "[screenshot]\nquality = 101\n"},
		{"bad log level", "[log]\nlevel = loud\n"},
		{"bad listen", "[server]\nlisten = nowhere\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestResolveToken(t *testing.T) {
	keyring.MockInit()

	cfg := Default()
	token, source, err := cfg.ResolveToken()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Equal(t, TokenNone, source)

	require.NoError(t, StoreToken("from-keyring"))
	token, source, err = cfg.ResolveToken()
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", token)
	assert.Equal(t, TokenKeyring, source)

	cfg.Server.Token = "from-config"
	token, source, err = cfg.ResolveToken()
	require.NoError(t, err)
	assert.Equal(t, "from-config", token)
	assert.Equal(t, TokenConfig, source)

	removed, err := ClearToken()
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = ClearToken()
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStoreToken_Empty(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, StoreToken(""))
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
