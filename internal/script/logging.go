package script

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nfrund/hostkit/internal/support"
)

// Event types attached to every script runtime record.
const (
	eventExecution   = "script_execution"
	eventLifecycle   = "script_lifecycle"
	eventError       = "script_error"
	eventPerformance = "script_performance"
	eventHotReload   = "hot_reload"
	eventFacade      = "support_call"
)

func emit(level slog.Level, message, eventType, scriptName string, attrs ...slog.Attr) {
	all := make([]slog.Attr, 0, len(attrs)+3)
	all = append(all,
		slog.String("component", "script_engine"),
		slog.String("script", scriptName),
		slog.String("event_type", eventType),
	)
	all = append(all, attrs...)
	slog.LogAttrs(context.Background(), level, message, all...)
}

// LogExecution records a script run.
func LogExecution(level slog.Level, message, scriptName string, attrs ...slog.Attr) {
	emit(level, message, eventExecution, scriptName, attrs...)
}

// LogLifecycle records a script being loaded, reloaded or removed.
func LogLifecycle(level slog.Level, message, scriptName string, attrs ...slog.Attr) {
	emit(level, message, eventLifecycle, scriptName, attrs...)
}

// LogError records a failed run. Facade errors carried as the cause are
// reported with their own type.
func LogError(err *ScriptError) {
	attrs := []slog.Attr{
		slog.String("error_type", string(err.Type)),
		slog.String("error_message", err.Message),
	}
	if err.Cause != nil {
		attrs = append(attrs, slog.String("cause", err.Cause.Error()))
		var facadeErr *support.Error
		if errors.As(err.Cause, &facadeErr) {
			attrs = append(attrs, slog.String("support_error", string(facadeErr.Type)))
		}
	}
	emit(slog.LevelError, "Script execution error", eventError, err.ScriptName, attrs...)
}

// LogPerformance records timings. Failed runs are raised to warn.
func LogPerformance(scriptName string, metrics ExecutionMetrics) {
	attrs := []slog.Attr{
		slog.Duration("compilation_time", metrics.CompilationTime),
		slog.Duration("execution_time", metrics.ExecutionTime),
		slog.Int64("memory_used", metrics.MemoryUsed),
		slog.Bool("success", metrics.Success),
	}
	level := slog.LevelDebug
	if metrics.ErrorType != "" {
		attrs = append(attrs, slog.String("error_type", string(metrics.ErrorType)))
		level = slog.LevelWarn
	}
	emit(level, "Script execution metrics", eventPerformance, scriptName, attrs...)
}

// LogHotReloadEvent records a filesystem change picked up by the watcher.
func LogHotReloadEvent(action, scriptName, filePath string, success bool, err error) {
	attrs := []slog.Attr{
		slog.String("file_path", filePath),
		slog.String("action", action),
		slog.Bool("success", success),
	}
	level := slog.LevelInfo
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		level = slog.LevelError
	}
	emit(level, "Script hot-reload "+action, eventHotReload, scriptName, attrs...)
}

// logFacadeCall records a support module call that failed and passes err
// through. Successful calls are not logged.
func logFacadeCall(op, target string, err error) error {
	if err == nil {
		return nil
	}
	attrs := []slog.Attr{
		slog.String("op", op),
		slog.String("target", target),
		slog.String("error", err.Error()),
	}
	var facadeErr *support.Error
	if errors.As(err, &facadeErr) {
		attrs = append(attrs, slog.String("support_error", string(facadeErr.Type)))
	}
	emit(slog.LevelDebug, "Support call failed", eventFacade, "", attrs...)
	return err
}
