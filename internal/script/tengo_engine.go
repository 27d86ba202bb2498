package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/parser"
	"github.com/d5/tengo/v2/stdlib"
)

// TengoEngine implements the LanguageEngine interface for Tengo scripts
type TengoEngine struct {
	securityLimits SecurityLimits
	host           *Host
}

// NewTengoEngine creates a new Tengo engine with default security limits.
// A nil host leaves the support module out of the import map.
func NewTengoEngine(h *Host) *TengoEngine {
	return &TengoEngine{
		securityLimits: GetDefaultSecurityLimits(),
		host:           h,
	}
}

// SetSecurityLimits configures resource and security constraints
func (e *TengoEngine) SetSecurityLimits(limits SecurityLimits) error {
	if limits.MaxExecutionTime <= 0 {
		return fmt.Errorf("max execution time must be positive, got %s", limits.MaxExecutionTime)
	}
	e.securityLimits = limits
	return nil
}

// Compile prepares a script for execution. Tengo resolves globals at compile
// time, so the bytecode itself is produced in Execute once the input
// variables are known.
func (e *TengoEngine) Compile(script *Script) (*CompiledScript, error) {
	tengoScript := tengo.NewScript([]byte(script.Content))
	tengoScript.SetImports(e.buildModuleMap())

	return &CompiledScript{
		Script:   script,
		Compiled: tengoScript,
	}, nil
}

// Execute runs a compiled script with context
func (e *TengoEngine) Execute(ctx context.Context, compiled *CompiledScript, input *ScriptInput) (*ScriptOutput, error) {
	name := compiled.Script.Name
	tengoScript, ok := compiled.Compiled.(*tengo.Script)
	if !ok {
		return nil, NewScriptError(ErrorTypeExecution, name, "invalid compiled script type for Tengo engine", nil)
	}

	var logs []string
	if err := e.setInputVariables(tengoScript, input, &logs); err != nil {
		return nil, NewScriptError(ErrorTypeExecution, name, "failed to set input variables", err)
	}
	tengoScript.SetMaxAllocs(e.securityLimits.MaxAllocs)

	compileStart := time.Now()
	program, err := tengoScript.Compile()
	if err != nil {
		errorType := ErrorTypeCompilation
		var syntaxErr parser.ErrorList
		if errors.As(err, &syntaxErr) {
			errorType = ErrorTypeInvalidSyntax
		}
		return nil, NewScriptError(errorType, name, "failed to compile Tengo script", err)
	}
	compilationTime := time.Since(compileStart)

	execCtx, cancel := context.WithTimeout(ctx, e.securityLimits.MaxExecutionTime)
	defer cancel()

	startTime := time.Now()
	memBefore := heapAlloc()
	if err := program.RunContext(execCtx); err != nil {
		switch {
		case execCtx.Err() != nil:
			return nil, NewScriptError(ErrorTypeTimeout, name, "script execution timed out", execCtx.Err())
		case errors.Is(err, tengo.ErrObjectAllocLimit):
			return nil, NewScriptError(ErrorTypeMemoryLimit, name, "script exceeded allocation limit", err)
		default:
			return nil, NewScriptError(ErrorTypeExecution, name, "script execution failed", err)
		}
	}
	executionTime := time.Since(startTime)

	memoryUsed := heapAlloc() - memBefore
	if memoryUsed > e.securityLimits.MaxMemoryBytes {
		return nil, NewScriptError(ErrorTypeMemoryLimit, name,
			fmt.Sprintf("script exceeded memory limit: %d bytes > %d bytes", memoryUsed, e.securityLimits.MaxMemoryBytes), nil)
	}

	return &ScriptOutput{
		Result: extractTengoResult(program),
		Logs:   logs,
		Metrics: ExecutionMetrics{
			CompilationTime: compilationTime,
			ExecutionTime:   executionTime,
			MemoryUsed:      memoryUsed,
			Success:         true,
		},
	}, nil
}

// buildModuleMap creates the allowed modules map based on security limits
func (e *TengoEngine) buildModuleMap() *tengo.ModuleMap {
	modules := tengo.NewModuleMap()
	for _, pkg := range e.securityLimits.AllowedPackages {
		if module, exists := stdlib.BuiltinModules[pkg]; exists {
			modules.AddBuiltinModule(pkg, module)
		}
	}
	if e.host != nil {
		modules.AddBuiltinModule(SupportModule, e.supportModule())
	}
	return modules
}

// setInputVariables sets up the input context for the script
func (e *TengoEngine) setInputVariables(script *tengo.Script, input *ScriptInput, logs *[]string) error {
	if input != nil {
		for key, value := range input.Context {
			if err := script.Add(key, value); err != nil {
				return fmt.Errorf("failed to set context variable %s: %w", key, err)
			}
		}

		if input.Message != nil {
			messageMap := map[string]interface{}{
				"topic":    input.Message.Topic,
				"actor_id": input.Message.ActorID,
				"payload":  string(input.Message.Payload),
			}
			if err := script.Add("message", messageMap); err != nil {
				return fmt.Errorf("failed to set message variable: %w", err)
			}
		}
	}

	return script.Add("log", &tengo.UserFunction{
		Name: "log",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			message, _ := tengo.ToString(args[0])
			*logs = append(*logs, message)
			slog.Info("Script log", "message", message, "source", "tengo_script")
			return tengo.UndefinedValue, nil
		},
	})
}

// extractTengoResult reads the script's top-level "result" variable.
func extractTengoResult(compiled *tengo.Compiled) interface{} {
	if result := compiled.Get("result"); result != nil && !result.IsUndefined() {
		return result.Value()
	}
	return nil
}
