package script

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/hostkit/internal/host"
	"github.com/nfrund/hostkit/internal/memhost"
	"github.com/nfrund/hostkit/internal/script/builtin"
)

func newTestEngine(t *testing.T, fs afero.Fs) (*Engine, *memhost.World) {
	t.Helper()
	h, world := newTestHost(t)
	engine := NewEngine(Dependencies{Host: h, Fs: fs, ScriptsDir: "scripts"})
	engine.RegisterEmbeddedProvider(builtin.Provider{})
	require.NoError(t, engine.Initialize(context.Background(), false))
	t.Cleanup(func() { _ = engine.Shutdown(context.Background()) })
	return engine, world
}

func playerContext(players ...*memhost.Player) map[string]interface{} {
	ids := make([]interface{}, len(players))
	for i, p := range players {
		ids[i] = p.ID()
	}
	return map[string]interface{}{
		"player":      players[0].ID(),
		"player_name": players[0].Name(),
		"players":     ids,
	}
}

func TestEngine_ListsBuiltinScripts(t *testing.T) {
	engine, _ := newTestEngine(t, afero.NewMemMapFs())
	assert.Equal(t, []string{"armor", "countdown", "welcome"}, engine.ListScripts())
	assert.Equal(t, []ScriptLanguage{LanguageTengo, LanguageLua}, engine.GetSupportedLanguages())
}

func TestEngine_Welcome(t *testing.T) {
	engine, world := newTestEngine(t, afero.NewMemMapFs())
	steve := world.SpawnPlayer("Steve")
	_, err := world.AddObjective("coins", "Coins")
	require.NoError(t, err)

	output, err := engine.Execute(context.Background(), ExecutionRequest{
		ScriptName: "welcome",
		Input:      &ScriptInput{Context: playerContext(steve)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), output.Result)

	world.Advance(3 * host.TicksPerSecond)
	overlays := steve.Overlays()
	require.Len(t, overlays, 3*host.TicksPerSecond+1)
	assert.Equal(t, "Steve has 10 coins", overlays[0].Text)
	assert.Equal(t, []string{"welcome: Steve"}, world.ChatLog())
}

func TestEngine_WelcomeWithoutObjective(t *testing.T) {
	engine, world := newTestEngine(t, afero.NewMemMapFs())
	steve := world.SpawnPlayer("Steve")

	output, err := engine.Execute(context.Background(), ExecutionRequest{
		ScriptName: "welcome",
		Input:      &ScriptInput{Context: playerContext(steve)},
	})
	require.NoError(t, err)
	assert.Nil(t, output.Result)

	world.Advance(host.TicksPerSecond)
	overlays := steve.Overlays()
	require.Len(t, overlays, 1)
	assert.Equal(t, "Welcome, Steve!", overlays[0].Text)
}

func TestEngine_Countdown(t *testing.T) {
	engine, world := newTestEngine(t, afero.NewMemMapFs())
	steve := world.SpawnPlayer("Steve")
	alex := world.SpawnPlayer("Alex")
	coins, err := world.AddObjective("coins", "Coins")
	require.NoError(t, err)
	_, err = coins.SetScore(alex, 4)
	require.NoError(t, err)

	output, err := engine.Execute(context.Background(), ExecutionRequest{
		ScriptName: "countdown",
		Input:      &ScriptInput{Context: playerContext(steve, alex)},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{steve.ID(): int64(0), alex.ID(): int64(4)}, output.Result)

	world.Advance(10 * host.TicksPerSecond)
	for _, p := range []*memhost.Player{steve, alex} {
		overlays := p.Overlays()
		require.Len(t, overlays, 5*host.TicksPerSecond+1)
		assert.Equal(t, "Ready or Not ready", overlays[0].Text)
	}
	assert.Equal(t, 0, world.Pending())
}

func TestEngine_Armor(t *testing.T) {
	engine, world := newTestEngine(t, afero.NewMemMapFs())
	steve := world.SpawnPlayer("Steve")
	steve.Equip(host.SlotHead, memhost.ItemStack{Type: "minecraft:iron_helmet", Count: 1})
	steve.Equip(host.SlotFeet, memhost.ItemStack{Type: "minecraft:iron_boots", Count: 1})
	steve.Equip(host.SlotOffHand, memhost.Air)
	armor, err := world.AddObjective("armor", "Armor")
	require.NoError(t, err)

	output, err := engine.Execute(context.Background(), ExecutionRequest{
		ScriptName: "armor",
		Input:      &ScriptInput{Context: playerContext(steve)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Result)
	assert.Equal(t, []string{
		"helmet: minecraft:iron_helmet x1",
		"boots: minecraft:iron_boots x1",
	}, world.ChatLog())

	score, ok, err := armor.Score(steve)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, score)
}

func TestEngine_ExternalOverridesBuiltin(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "scripts/welcome.tengo", []byte(`result := "custom"`), 0o644))
	engine, world := newTestEngine(t, fs)
	steve := world.SpawnPlayer("Steve")

	output, err := engine.Execute(context.Background(), ExecutionRequest{
		ScriptName: "welcome",
		Input:      &ScriptInput{Context: playerContext(steve)},
	})
	require.NoError(t, err)
	assert.Equal(t, "custom", output.Result)
}

func TestEngine_NotFound(t *testing.T) {
	engine, _ := newTestEngine(t, afero.NewMemMapFs())

	_, err := engine.Execute(context.Background(), ExecutionRequest{ScriptName: "missing"})
	requireScriptError(t, err, ErrorTypeNotFound)
}

func TestEngine_RequestLimitsOverrideDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "scripts/spin.tengo", []byte(`for {}`), 0o644))
	engine, _ := newTestEngine(t, fs)

	limits := GetDefaultSecurityLimits()
	limits.MaxExecutionTime = 20 * time.Millisecond
	_, err := engine.Execute(context.Background(), ExecutionRequest{
		ScriptName:     "spin",
		SecurityLimits: limits,
	})
	requireScriptError(t, err, ErrorTypeTimeout)
}

func TestEngine_ExtractDefaultScripts(t *testing.T) {
	fs := afero.NewMemMapFs()
	engine, _ := newTestEngine(t, fs)

	count, err := engine.ExtractDefaultScripts()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	content, err := afero.ReadFile(fs, "scripts/armor.lua")
	require.NoError(t, err)
	assert.Equal(t, builtin.ArmorScript, string(content))
}
