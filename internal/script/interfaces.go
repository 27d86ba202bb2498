package script

import (
	"context"
)

// ScriptEngine is what the application and the CLI drive: it resolves
// scripts by name and runs them against the support module.
type ScriptEngine interface {
	Execute(ctx context.Context, req ExecutionRequest) (*ScriptOutput, error)
	GetScript(scriptName string) (*Script, error)

	// ListScripts returns the names of all loaded scripts, sorted.
	ListScripts() []string

	// ExtractDefaultScripts copies the built-in scripts into the scripts
	// directory without overwriting, and reports how many were written.
	ExtractDefaultScripts() (int, error)

	Shutdown(ctx context.Context) error
}

// EngineFactory creates a fresh LanguageEngine per run.
type EngineFactory interface {
	CreateEngine(language ScriptLanguage) (LanguageEngine, error)
	SupportedLanguages() []ScriptLanguage
}

// LanguageEngine compiles and runs scripts of one language. Limits apply to
// every Execute after SetSecurityLimits.
type LanguageEngine interface {
	Compile(script *Script) (*CompiledScript, error)
	Execute(ctx context.Context, compiled *CompiledScript, input *ScriptInput) (*ScriptOutput, error)
	SetSecurityLimits(limits SecurityLimits) error
}
