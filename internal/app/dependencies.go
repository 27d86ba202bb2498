package app

import (
	"github.com/spf13/afero"

	"github.com/nfrund/hostkit/internal/config"
	"github.com/nfrund/hostkit/internal/memhost"
	"github.com/nfrund/hostkit/internal/pubsub"
	"github.com/nfrund/hostkit/internal/script"
	"github.com/nfrund/hostkit/internal/support"
)

// Dependencies holds what the application needs from its entrypoint.
// Fs nil selects the OS filesystem for external scripts. Version is
// reported on traces.
type Dependencies struct {
	Config  *config.Config
	Fs      afero.Fs
	Version string
}

// worldDeps creates the dependency struct for the in-memory host.
func worldDeps(bus pubsub.Publisher) memhost.Dependencies {
	return memhost.Dependencies{
		Publisher: bus,
	}
}

// supportDeps points every host accessor of the facade at the world.
func supportDeps(world *memhost.World) support.Dependencies {
	return support.Dependencies{
		Scoreboard:  world,
		Scheduler:   world,
		Broadcaster: world,
		Clock:       world,
	}
}

// supportOptions maps configuration onto facade options.
func supportOptions(cfg *config.Config) (support.Options, error) {
	policy, err := support.ParseDisconnectPolicy(cfg.DisconnectPolicy)
	if err != nil {
		return support.Options{}, err
	}
	return support.Options{
		DebugTag:         cfg.DebugTag,
		DebugPlain:       !cfg.DebugTimestamps,
		ActionBarCadence: cfg.ActionBarCadence,
		Disconnect:       policy,
	}, nil
}

// tracingConfig maps configuration onto the bus tracer setup.
func tracingConfig(cfg *config.Config, version string) pubsub.TracingConfig {
	return pubsub.TracingConfig{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    cfg.TracingServiceName,
		ServiceVersion: version,
		ZipkinURL:      cfg.TracingZipkinURL,
	}
}

// scriptDeps creates the dependency struct for the script engine.
func scriptDeps(cfg *config.Config, fs afero.Fs, h *script.Host) script.Dependencies {
	limits := script.GetDefaultSecurityLimits()
	limits.MaxExecutionTime = cfg.ScriptTimeout
	limits.MaxMemoryBytes = cfg.ScriptMaxMemoryBytes()

	return script.Dependencies{
		Host:       h,
		Fs:         fs,
		ScriptsDir: cfg.ScriptsDir,
		Limits:     limits,
	}
}
