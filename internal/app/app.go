// Package app wires the runtime: the event bus, the in-memory world, the
// support facade on top of it, and the script engine exposing the facade.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/nfrund/hostkit/internal/memhost"
	"github.com/nfrund/hostkit/internal/pubsub"
	"github.com/nfrund/hostkit/internal/registry"
	"github.com/nfrund/hostkit/internal/script"
	"github.com/nfrund/hostkit/internal/script/builtin"
	"github.com/nfrund/hostkit/internal/support"
)

// App owns the shared services. Commands reach them through the registry.
type App struct {
	Registry *registry.Registry

	bus           *pubsub.WatermillBridge
	engine        *script.Engine
	shutdownTrace func(context.Context) error
}

// New builds every service and registers it. Nothing runs until Start.
func New(deps Dependencies) (*App, error) {
	if deps.Config == nil {
		return nil, errors.New("app: config is required")
	}
	fs := deps.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	opts, err := supportOptions(deps.Config)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	tracer, shutdownTrace, err := pubsub.SetupOTel(context.Background(), tracingConfig(deps.Config, deps.Version))
	if err != nil {
		return nil, fmt.Errorf("app: setup tracing: %w", err)
	}
	bus := pubsub.NewWatermillBridgeWithTracer(tracer)
	world := memhost.New(worldDeps(bus))
	facade := support.New(supportDeps(world), opts)

	engine := script.NewEngine(scriptDeps(deps.Config, fs, &script.Host{
		Support:   facade,
		Directory: world,
	}))
	engine.RegisterEmbeddedProvider(builtin.Provider{})

	reg := registry.New(deps.Config)
	registry.Set(reg, registry.BusKey, bus)
	registry.Set(reg, registry.WorldKey, world)
	registry.Set(reg, registry.SupportKey, facade)
	registry.Set(reg, registry.ScriptEngineKey, engine)

	return &App{
		Registry:      reg,
		bus:           bus,
		engine:        engine,
		shutdownTrace: shutdownTrace,
	}, nil
}

// Start loads external scripts and starts hot reload when configured and
// asked for. The watcher stops with ctx.
func (a *App) Start(ctx context.Context, watch bool) error {
	cfg := a.Registry.Config()
	if err := a.engine.Initialize(ctx, watch && cfg.HotReload); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	slog.Info("Runtime started",
		"scripts", len(a.engine.ListScripts()),
		"scripts_dir", cfg.ScriptsDir,
	)
	return nil
}

// Shutdown stops the script engine, then the bus, then flushes traces.
func (a *App) Shutdown(ctx context.Context) error {
	engineErr := a.engine.Shutdown(ctx)
	busErr := a.bus.Close()
	traceErr := a.shutdownTrace(ctx)
	return errors.Join(engineErr, busErr, traceErr)
}
