package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "Aviso: ", cfg.DebugTag)
	assert.True(t, cfg.DebugTimestamps)
	assert.Equal(t, 1, cfg.ActionBarCadence)
	assert.Equal(t, "ignore", cfg.DisconnectPolicy)
	assert.Equal(t, "scripts", cfg.ScriptsDir)
	assert.True(t, cfg.HotReload)
	assert.Equal(t, 5*time.Second, cfg.ScriptTimeout)
	assert.Equal(t, int64(32*1024*1024), cfg.ScriptMaxMemoryBytes())
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, "hostkit", cfg.TracingServiceName)
}

func TestParse_FromEnvironment(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("HOSTKIT_DEBUG_TIMESTAMPS", "false")
	t.Setenv("HOSTKIT_ACTIONBAR_CADENCE", "5")
	t.Setenv("HOSTKIT_DISCONNECT_POLICY", "fail")
	t.Setenv("HOSTKIT_SCRIPT_TIMEOUT", "250ms")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
	assert.False(t, cfg.DebugTimestamps)
	assert.Equal(t, 5, cfg.ActionBarCadence)
	assert.Equal(t, "fail", cfg.DisconnectPolicy)
	assert.Equal(t, 250*time.Millisecond, cfg.ScriptTimeout)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown format", "LOG_FORMAT", "xml"},
		{"unknown level", "LOG_LEVEL", "loud"},
		{"zero cadence", "HOSTKIT_ACTIONBAR_CADENCE", "0"},
		{"unknown policy", "HOSTKIT_DISCONNECT_POLICY", "retry"},
		{"not a duration", "HOSTKIT_SCRIPT_TIMEOUT", "soon"},
		{"zero memory", "HOSTKIT_SCRIPT_MAX_MEMORY", "0"},
		{"bad zipkin url", "PUBSUB_TRACING_ZIPKIN_URL", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}
