package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Shopify/go-lua"
)

// luaLibraries maps allowed package names onto the Lua standard libraries
// that provide the same ground. The base library and table are always open.
var luaLibraries = map[string]lua.RegistryFunction{
	"strings": {Name: "string", Function: lua.StringOpen},
	"math":    {Name: "math", Function: lua.MathOpen},
}

// LuaEngine implements the LanguageEngine interface for Lua scripts
type LuaEngine struct {
	securityLimits SecurityLimits
	host           *Host
}

// NewLuaEngine creates a new Lua engine with default security limits.
// A nil host leaves the support table undefined.
func NewLuaEngine(h *Host) *LuaEngine {
	return &LuaEngine{
		securityLimits: GetDefaultSecurityLimits(),
		host:           h,
	}
}

// SetSecurityLimits configures resource and security constraints
func (e *LuaEngine) SetSecurityLimits(limits SecurityLimits) error {
	if limits.MaxExecutionTime <= 0 {
		return fmt.Errorf("max execution time must be positive, got %s", limits.MaxExecutionTime)
	}
	e.securityLimits = limits
	return nil
}

// Compile checks the chunk parses. Each execution loads it again into a
// fresh state.
func (e *LuaEngine) Compile(script *Script) (*CompiledScript, error) {
	l := lua.NewState()
	if err := lua.LoadBuffer(l, script.Content, chunkName(script), ""); err != nil {
		return nil, NewScriptError(ErrorTypeInvalidSyntax, script.Name, "failed to parse Lua script", luaError(l, err))
	}
	return &CompiledScript{
		Script:   script,
		Compiled: script.Content,
	}, nil
}

// luaHookInstructions is how many VM instructions run between deadline checks.
const luaHookInstructions = 1000

// luaRun is the per-execution state shared with the Go functions a script
// calls.
type luaRun struct {
	logs  []string
	fault error
}

// Execute runs a compiled script with context
func (e *LuaEngine) Execute(ctx context.Context, compiled *CompiledScript, input *ScriptInput) (*ScriptOutput, error) {
	name := compiled.Script.Name
	source, ok := compiled.Compiled.(string)
	if !ok {
		return nil, NewScriptError(ErrorTypeExecution, name, "invalid compiled script type for Lua engine", nil)
	}

	compileStart := time.Now()
	run := &luaRun{}
	l := e.newState(run)
	if err := setLuaInput(l, input); err != nil {
		return nil, NewScriptError(ErrorTypeExecution, name, "failed to set input variables", err)
	}
	if err := lua.LoadBuffer(l, source, chunkName(compiled.Script), ""); err != nil {
		return nil, NewScriptError(ErrorTypeInvalidSyntax, name, "failed to parse Lua script", luaError(l, err))
	}
	compilationTime := time.Since(compileStart)

	execCtx, cancel := context.WithTimeout(ctx, e.securityLimits.MaxExecutionTime)
	defer cancel()

	startTime := time.Now()
	memBefore := heapAlloc()

	// Past the deadline the hook fires on every instruction, so a script
	// that swallows the error with pcall is stopped by the next instruction
	// outside it.
	var deadlineHook lua.Hook
	deadlineHook = func(l *lua.State, _ lua.Debug) {
		if execCtx.Err() != nil {
			lua.SetDebugHook(l, deadlineHook, lua.MaskCount, 1)
			lua.Errorf(l, "script execution timed out")
		}
	}
	lua.SetDebugHook(l, deadlineHook, lua.MaskCount, luaHookInstructions)

	resultChan := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultChan <- fmt.Errorf("script panic: %v", r)
			}
		}()
		resultChan <- l.ProtectedCall(0, 1, 0)
	}()

	var err error
	select {
	case err = <-resultChan:
	case <-execCtx.Done():
		err = <-resultChan
	}
	if execCtx.Err() != nil {
		return nil, NewScriptError(ErrorTypeTimeout, name, "script execution timed out", execCtx.Err())
	}
	if err != nil {
		return nil, NewScriptError(ErrorTypeExecution, name, "script execution failed", run.cause(l, err))
	}
	executionTime := time.Since(startTime)

	memoryUsed := heapAlloc() - memBefore
	if memoryUsed > e.securityLimits.MaxMemoryBytes {
		return nil, NewScriptError(ErrorTypeMemoryLimit, name,
			fmt.Sprintf("script exceeded memory limit: %d bytes > %d bytes", memoryUsed, e.securityLimits.MaxMemoryBytes), nil)
	}

	result := luaToGo(l, -1)
	l.Pop(1)
	if result == nil {
		l.Global("result")
		result = luaToGo(l, -1)
		l.Pop(1)
	}

	return &ScriptOutput{
		Result: result,
		Logs:   run.logs,
		Metrics: ExecutionMetrics{
			CompilationTime: compilationTime,
			ExecutionTime:   executionTime,
			MemoryUsed:      memoryUsed,
			Success:         true,
		},
	}, nil
}

// newState opens the allowed libraries and installs log and the support table.
func (e *LuaEngine) newState(run *luaRun) *lua.State {
	l := lua.NewState()
	lua.Require(l, "_G", lua.BaseOpen, true)
	l.Pop(1)
	lua.Require(l, "table", lua.TableOpen, true)
	l.Pop(1)
	for pkg, lib := range luaLibraries {
		if e.securityLimits.allows(pkg) {
			lua.Require(l, lib.Name, lib.Function, true)
			l.Pop(1)
		}
	}
	for _, unsafe := range []string{"dofile", "loadfile"} {
		l.PushNil()
		l.SetGlobal(unsafe)
	}

	l.PushGoFunction(func(l *lua.State) int {
		message := lua.CheckString(l, 1)
		run.logs = append(run.logs, message)
		slog.Info("Script log", "message", message, "source", "lua_script")
		return 0
	})
	l.SetGlobal("log")

	if e.host != nil {
		l.NewTable()
		lua.SetFunctions(l, e.supportFunctions(run), 0)
		l.SetGlobal(SupportModule)
	}
	return l
}

// raise records a facade error and raises it inside the script.
func (r *luaRun) raise(l *lua.State, err error) int {
	r.fault = err
	lua.Errorf(l, "%s", err.Error())
	return 0
}

// cause prefers the Go error behind a Lua failure, so callers can match it
// with errors.Is. A fault the script caught with pcall is not reported.
func (r *luaRun) cause(l *lua.State, err error) error {
	err = luaError(l, err)
	if r.fault != nil && strings.Contains(err.Error(), r.fault.Error()) {
		slog.Debug("Lua script raised host error", "lua_error", err.Error())
		return r.fault
	}
	return err
}

// luaError replaces a bare status error with the message Lua left on the stack.
func luaError(l *lua.State, err error) error {
	if msg, ok := l.ToString(-1); ok && msg != "" {
		l.Pop(1)
		return errors.New(msg)
	}
	return err
}

func chunkName(script *Script) string {
	return "@" + script.Filename()
}

// setLuaInput publishes the context values as globals.
func setLuaInput(l *lua.State, input *ScriptInput) error {
	if input == nil {
		return nil
	}
	for key, value := range input.Context {
		if err := pushLuaValue(l, value); err != nil {
			return fmt.Errorf("failed to set context variable %s: %w", key, err)
		}
		l.SetGlobal(key)
	}
	if input.Message != nil {
		l.NewTable()
		l.PushString(input.Message.Topic)
		l.SetField(-2, "topic")
		l.PushString(input.Message.ActorID)
		l.SetField(-2, "actor_id")
		l.PushString(string(input.Message.Payload))
		l.SetField(-2, "payload")
		l.SetGlobal("message")
	}
	return nil
}

func pushLuaValue(l *lua.State, value interface{}) error {
	switch v := value.(type) {
	case nil:
		l.PushNil()
	case string:
		l.PushString(v)
	case bool:
		l.PushBoolean(v)
	case int:
		l.PushInteger(v)
	case int64:
		l.PushInteger(int(v))
	case float64:
		l.PushNumber(v)
	case []string:
		l.NewTable()
		for i, s := range v {
			l.PushString(s)
			l.RawSetInt(-2, i+1)
		}
	case []interface{}:
		l.NewTable()
		for i, item := range v {
			if err := pushLuaValue(l, item); err != nil {
				l.Pop(1)
				return err
			}
			l.RawSetInt(-2, i+1)
		}
	case map[string]interface{}:
		l.NewTable()
		for key, item := range v {
			if err := pushLuaValue(l, item); err != nil {
				l.Pop(1)
				return err
			}
			l.SetField(-2, key)
		}
	default:
		return fmt.Errorf("cannot convert %T to a Lua value", value)
	}
	return nil
}

func luaToGo(l *lua.State, index int) interface{} {
	switch l.TypeOf(index) {
	case lua.TypeString:
		value, _ := l.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := l.ToNumber(index)
		if value == float64(int(value)) {
			return int(value)
		}
		return value
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeTable:
		return luaTableToGo(l, index)
	default:
		return nil
	}
}

// luaTableToGo converts a sequence to a slice and anything else, including
// the empty table, to a map keyed by string.
func luaTableToGo(l *lua.State, index int) interface{} {
	index = l.AbsIndex(index)

	length := 0
	keys := 0
	sequence := true
	l.PushNil()
	for l.Next(index) {
		keys++
		if n, ok := l.ToInteger(-2); !ok || l.TypeOf(-2) != lua.TypeNumber || n < 1 {
			sequence = false
		} else if n > length {
			length = n
		}
		l.Pop(1)
	}

	if sequence && keys > 0 && length == keys {
		out := make([]interface{}, length)
		for i := 1; i <= length; i++ {
			l.RawGetInt(index, i)
			out[i-1] = luaToGo(l, -1)
			l.Pop(1)
		}
		return out
	}

	out := make(map[string]interface{}, keys)
	l.PushNil()
	for l.Next(index) {
		if l.TypeOf(-2) == lua.TypeString {
			key, _ := l.ToString(-2)
			out[key] = luaToGo(l, -1)
		}
		l.Pop(1)
	}
	return out
}
