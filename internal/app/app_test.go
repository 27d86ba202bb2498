package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/hostkit/internal/config"
	"github.com/nfrund/hostkit/internal/memhost"
	"github.com/nfrund/hostkit/internal/pubsub"
	"github.com/nfrund/hostkit/internal/registry"
	"github.com/nfrund/hostkit/internal/script"
)

func testConfig() *config.Config {
	return &config.Config{
		LogFormat:          "text",
		LogLevel:           "debug",
		DebugTag:           "Aviso: ",
		DebugTimestamps:    false,
		ActionBarCadence:   1,
		DisconnectPolicy:   "ignore",
		ScriptsDir:         "scripts",
		ScriptTimeout:      time.Second,
		ScriptMaxMemoryMiB: 32,
	}
}

func TestNew_RegistersServices(t *testing.T) {
	a, err := New(Dependencies{Config: testConfig(), Fs: afero.NewMemMapFs()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	for _, ok := range []bool{
		has(a.Registry, registry.BusKey),
		has(a.Registry, registry.WorldKey),
		has(a.Registry, registry.SupportKey),
		has(a.Registry, registry.ScriptEngineKey),
	} {
		assert.True(t, ok)
	}
}

func has[T any](reg *registry.Registry, key registry.Key[T]) bool {
	_, ok := registry.Get(reg, key)
	return ok
}

func TestNew_RejectsBadPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.DisconnectPolicy = "retry"
	_, err := New(Dependencies{Config: cfg})
	assert.Error(t, err)

	_, err = New(Dependencies{})
	assert.Error(t, err)
}

func TestApp_RunsBuiltinScriptAndPublishesEvents(t *testing.T) {
	a, err := New(Dependencies{Config: testConfig(), Fs: afero.NewMemMapFs()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx, false))

	var mu sync.Mutex
	var chat []string
	var overlays []string
	bus := registry.MustGet(a.Registry, registry.BusKey)
	require.NoError(t, pubsub.Subscribe(ctx, bus, memhost.ChatEvent, func(_ context.Context, _ pubsub.Message, m memhost.ChatMessage) error {
		mu.Lock()
		defer mu.Unlock()
		chat = append(chat, m.Line)
		return nil
	}))
	require.NoError(t, pubsub.Subscribe(ctx, bus, memhost.ActionBarEvent, func(_ context.Context, _ pubsub.Message, m memhost.ActionBarMessage) error {
		mu.Lock()
		defer mu.Unlock()
		overlays = append(overlays, m.Text)
		return nil
	}))

	world := registry.MustGet(a.Registry, registry.WorldKey)
	steve := world.SpawnPlayer("Steve")

	engine := registry.MustGet(a.Registry, registry.ScriptEngineKey)
	_, err = engine.Execute(ctx, script.ExecutionRequest{
		ScriptName: "welcome",
		Input: &script.ScriptInput{Context: map[string]interface{}{
			"player":      steve.ID(),
			"player_name": "Steve",
			"players":     []interface{}{steve.ID()},
		}},
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"welcome: Steve"}, chat)
	assert.Equal(t, []string{"Welcome, Steve!"}, overlays)
}
