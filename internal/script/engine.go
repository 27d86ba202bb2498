package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/afero"
)

// Engine implements the ScriptEngine interface
type Engine struct {
	registry       *Registry
	factory        EngineFactory
	securityLimits SecurityLimits
}

var (
	_ ScriptEngine   = (*Engine)(nil)
	_ EngineFactory  = (*Factory)(nil)
	_ LanguageEngine = (*TengoEngine)(nil)
	_ LanguageEngine = (*LuaEngine)(nil)
)

// Dependencies holds all the services that the Engine requires to operate.
// Host backs the support module; scripts run without one when it is nil.
// Fs and ScriptsDir locate external scripts. Limits replaces the defaults
// when its MaxExecutionTime is set.
type Dependencies struct {
	Host       *Host
	Fs         afero.Fs
	ScriptsDir string
	Limits     SecurityLimits
}

// NewEngine creates a new script engine with the given dependencies
func NewEngine(deps Dependencies) *Engine {
	fs := deps.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dir := deps.ScriptsDir
	if dir == "" {
		dir = "scripts"
	}
	limits := GetDefaultSecurityLimits()
	if deps.Limits.MaxExecutionTime > 0 {
		limits = deps.Limits
	}

	return &Engine{
		registry:       NewRegistry(fs, dir),
		factory:        NewFactory(deps.Host),
		securityLimits: limits,
	}
}

// Initialize loads external scripts and, when asked, starts hot-reloading.
func (e *Engine) Initialize(ctx context.Context, enableHotReload bool) error {
	slog.Info("Initializing script engine", "scripts_dir", e.registry.Dir())

	if err := e.registry.LoadScripts(); err != nil {
		return fmt.Errorf("failed to load scripts: %w", err)
	}

	if err := e.registry.StartWatcher(ctx, enableHotReload); err != nil {
		// Scripts still run without hot-reload.
		slog.Error("Failed to start file system watcher", "error", err)
	}

	slog.Info("Script engine initialized", "total_scripts", len(e.registry.ListScripts()))
	return nil
}

// RegisterEmbeddedProvider registers a provider for embedded scripts
func (e *Engine) RegisterEmbeddedProvider(provider EmbeddedScriptProvider) {
	e.registry.RegisterEmbeddedProvider(provider)
}

// Registry exposes the script registry, for listing and change hooks.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Execute runs a script with the given context and returns results
func (e *Engine) Execute(ctx context.Context, req ExecutionRequest) (*ScriptOutput, error) {
	output, err := e.execute(ctx, req)
	if err != nil {
		var scriptErr *ScriptError
		if errors.As(err, &scriptErr) {
			LogError(scriptErr)
			LogPerformance(req.ScriptName, ExecutionMetrics{ErrorType: scriptErr.Type})
		}
		return nil, err
	}
	return output, nil
}

func (e *Engine) execute(ctx context.Context, req ExecutionRequest) (*ScriptOutput, error) {
	script, err := e.GetScript(req.ScriptName)
	if err != nil {
		return nil, err
	}

	langEngine, err := e.factory.CreateEngine(script.Language)
	if err != nil {
		return nil, NewScriptError(ErrorTypeExecution, req.ScriptName, "failed to create language engine", err)
	}

	limits := e.securityLimits
	if req.SecurityLimits.MaxExecutionTime > 0 {
		limits = req.SecurityLimits
	}
	if err := langEngine.SetSecurityLimits(limits); err != nil {
		return nil, NewScriptError(ErrorTypeExecution, req.ScriptName, "failed to set security limits", err)
	}

	compiled, err := langEngine.Compile(script)
	if err != nil {
		return nil, err
	}

	output, err := langEngine.Execute(ctx, compiled, req.Input)
	if err != nil {
		return nil, err
	}

	LogExecution(slog.LevelDebug, "Script executed successfully", req.ScriptName,
		slog.String("language", string(script.Language)),
		slog.String("source", string(script.Source)),
		slog.Duration("execution_time", output.Metrics.ExecutionTime),
	)
	LogPerformance(req.ScriptName, output.Metrics)

	return output, nil
}

// GetScript retrieves a script by name
func (e *Engine) GetScript(scriptName string) (*Script, error) {
	return e.registry.GetScript(scriptName)
}

// ListScripts returns the names of all loaded scripts, sorted
func (e *Engine) ListScripts() []string {
	return e.registry.ListScripts()
}

// ExtractDefaultScripts writes embedded scripts to the scripts directory
func (e *Engine) ExtractDefaultScripts() (int, error) {
	slog.Info("Extracting default scripts", "target_dir", e.registry.Dir())

	count, err := e.registry.ExtractEmbedded()
	if err != nil {
		return count, err
	}

	slog.Info("Script extraction completed", "extracted_count", count, "target_dir", e.registry.Dir())
	return count, nil
}

// Shutdown gracefully stops the engine and cleans up resources
func (e *Engine) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down script engine")
	e.registry.StopWatcher()
	return nil
}

// GetSupportedLanguages returns all supported script languages
func (e *Engine) GetSupportedLanguages() []ScriptLanguage {
	return e.factory.SupportedLanguages()
}

// SetSecurityLimits updates the default security limits for the engine
func (e *Engine) SetSecurityLimits(limits SecurityLimits) {
	e.securityLimits = limits
	slog.Debug("Updated default security limits",
		"max_execution_time", limits.MaxExecutionTime,
		"max_memory_bytes", limits.MaxMemoryBytes,
	)
}

// heapAlloc reads the live heap size, for the per-run memory check.
func heapAlloc() int64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return int64(stats.Alloc)
}
