package script

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/nfrund/hostkit/internal/pubsub"
)

// ScriptLanguage represents supported scripting languages
type ScriptLanguage string

const (
	LanguageTengo ScriptLanguage = "tengo"
	LanguageLua   ScriptLanguage = "lua"
)

// Extension returns the file extension used by scripts in this language.
func (l ScriptLanguage) Extension() string {
	return "." + string(l)
}

// LanguageForFile maps a script filename to its language by extension.
func LanguageForFile(filename string) (ScriptLanguage, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tengo":
		return LanguageTengo, true
	case ".lua":
		return LanguageLua, true
	}
	return "", false
}

// ScriptSource indicates where a script was loaded from
type ScriptSource string

const (
	SourceEmbedded ScriptSource = "embedded"
	SourceExternal ScriptSource = "external"
)

// ErrorType categorizes different types of script errors
type ErrorType string

const (
	ErrorTypeCompilation   ErrorType = "compilation"
	ErrorTypeExecution     ErrorType = "execution"
	ErrorTypeTimeout       ErrorType = "timeout"
	ErrorTypeMemoryLimit   ErrorType = "memory_limit"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeInvalidSyntax ErrorType = "invalid_syntax"
)

// Script represents a script file with metadata
type Script struct {
	Name         string
	Language     ScriptLanguage
	Content      string
	Source       ScriptSource
	LastModified time.Time
	Checksum     string
}

// Filename is the name the script is stored under on disk.
func (s *Script) Filename() string {
	return s.Name + s.Language.Extension()
}

// ExecutionRequest contains all data needed to execute a script
type ExecutionRequest struct {
	ScriptName     string
	Input          *ScriptInput
	SecurityLimits SecurityLimits
}

// ScriptInput provides context and data to the executing script
type ScriptInput struct {
	// Context values become script globals.
	Context map[string]interface{}

	// Message is set when the run was triggered by a bus event.
	Message *pubsub.Message
}

// ScriptOutput contains the results of script execution
type ScriptOutput struct {
	Result  interface{}
	Logs    []string
	Metrics ExecutionMetrics
}

// ExecutionMetrics tracks performance and execution data
type ExecutionMetrics struct {
	CompilationTime time.Duration
	ExecutionTime   time.Duration
	MemoryUsed      int64
	Success         bool
	ErrorType       ErrorType
}

// SecurityLimits defines resource constraints for script execution.
// MaxAllocs caps Tengo object allocations; -1 disables the cap.
type SecurityLimits struct {
	MaxExecutionTime time.Duration
	MaxMemoryBytes   int64
	MaxAllocs        int64
	AllowedPackages  []string
}

// CompiledScript represents a compiled script ready for execution
type CompiledScript struct {
	Script   *Script
	Compiled interface{} // language-specific compiled representation
}

// ScriptError represents script-related errors with context
type ScriptError struct {
	Type       ErrorType
	ScriptName string
	Message    string
	Cause      error
	Timestamp  time.Time
}

func (e *ScriptError) Error() string {
	if e.Cause != nil {
		return e.ScriptName + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.ScriptName + ": " + e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Cause
}

// NewScriptError creates a new ScriptError with the given parameters
func NewScriptError(errorType ErrorType, scriptName, message string, cause error) *ScriptError {
	return &ScriptError{
		Type:       errorType,
		ScriptName: scriptName,
		Message:    message,
		Cause:      cause,
		Timestamp:  time.Now(),
	}
}
