// This file contains the default zerolog-backed logger implementation.
// Loggers consult the provider on every call, so SetLevel and SetOutput take
// effect for loggers that were created earlier.

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	sfErrors "github.com/ezoic/splinefit/pkg/errors"
)

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = newZerologProvider(os.Stderr, LevelInfo)
)

func init() {
	// Route pkg/errors warnings into the structured logger.
	sfErrors.SetZerologWarnFunc(func(w error) {
		GetLogger().Warn(w.Error(), w)
	})
}

// GetLogger returns the default logger from the active provider.
func GetLogger() Logger {
	return currentProvider().GetLogger()
}

// GetLoggerWithName returns a logger tagged with the given component name.
func GetLoggerWithName(name string) Logger {
	return currentProvider().GetLoggerWithName(name)
}

// SetLevel sets the minimum log level on the active provider.
func SetLevel(level Level) {
	currentProvider().SetLevel(level)
}

// SetOutput redirects the active provider's output when it supports doing
// so. The default zerolog provider does; custom providers may ignore this.
func SetOutput(w io.Writer) {
	if p, ok := currentProvider().(interface{ SetOutput(io.Writer) }); ok {
		p.SetOutput(w)
	}
}

// SetLoggerProvider replaces the active provider. Passing nil restores the
// default zerolog provider.
func SetLoggerProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	if p == nil {
		p = newZerologProvider(os.Stderr, LevelInfo)
	}
	defaultProvider = p
}

func currentProvider() LoggerProvider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider
}

// zerologProvider is the default LoggerProvider. It writes JSON lines
// through zerolog and guards its sink and level with a mutex so that
// configuration changes are visible to all loggers it has handed out.
type zerologProvider struct {
	mu    sync.RWMutex
	root  zerolog.Logger
	level Level
}

func newZerologProvider(w io.Writer, level Level) *zerologProvider {
	return &zerologProvider{
		root:  zerolog.New(w).With().Timestamp().Logger(),
		level: level,
	}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *zerologProvider) GetLogger() Logger {
	return &zerologLogger{provider: p}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{provider: p, fields: []any{ComponentKey, name}}
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *zerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

// SetOutput redirects all future log records to w.
func (p *zerologProvider) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = p.root.Output(w)
}

func (p *zerologProvider) enabled(level Level) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return level >= p.level
}

func (p *zerologProvider) event(level Level) *zerolog.Event {
	p.mu.RLock()
	root := p.root
	p.mu.RUnlock()
	switch {
	case level <= LevelDebug:
		return root.Debug()
	case level <= LevelInfo:
		return root.Info()
	case level <= LevelWarn:
		return root.Warn()
	default:
		return root.Error()
	}
}

// zerologLogger adapts a zerologProvider to the Logger interface. Contextual
// fields added through With are stored unevaluated and applied per record.
type zerologLogger struct {
	provider *zerologProvider
	fields   []any
}

// Debug implements Logger.Debug.
func (l *zerologLogger) Debug(msg string, fields ...any) { l.log(LevelDebug, msg, fields) }

// Info implements Logger.Info.
func (l *zerologLogger) Info(msg string, fields ...any) { l.log(LevelInfo, msg, fields) }

// Warn implements Logger.Warn.
func (l *zerologLogger) Warn(msg string, fields ...any) { l.log(LevelWarn, msg, fields) }

// Error implements Logger.Error.
func (l *zerologLogger) Error(msg string, fields ...any) { l.log(LevelError, msg, fields) }

// With implements Logger.With.
func (l *zerologLogger) With(fields ...any) Logger {
	merged := make([]any, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &zerologLogger{provider: l.provider, fields: merged}
}

// Enabled implements Logger.Enabled.
func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return l.provider.enabled(level)
}

func (l *zerologLogger) log(level Level, msg string, fields []any) {
	if !l.provider.enabled(level) {
		return
	}
	ev := l.provider.event(level)
	applyFields(ev, l.fields)
	applyFields(ev, fields)
	ev.Msg(msg)
}

// applyFields adds alternating key-value pairs to the event. A bare error in
// the first position is logged under the standard error key together with
// its stack trace, matching the Logger.Error convention. A trailing key
// without a value is dropped.
func applyFields(ev *zerolog.Event, fields []any) {
	i := 0
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			addError(ev, err)
			i = 1
		}
	}
	for ; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", fields[i])
		}
		addValue(ev, key, fields[i+1])
	}
}

func addError(ev *zerolog.Event, err error) {
	var marshaler zerolog.LogObjectMarshaler
	if errors.As(err, &marshaler) {
		ev.EmbedObject(marshaler)
	}
	ev.AnErr(zerolog.ErrorFieldName, err)
	if st := extractStacktrace(err); st != "" {
		ev.Str(StacktraceKey, st)
	}
}

func addValue(ev *zerolog.Event, key string, value any) {
	switch v := value.(type) {
	case error:
		ev.AnErr(key, v)
	case zerolog.LogObjectMarshaler:
		ev.Object(key, v)
	case string:
		ev.Str(key, v)
	case bool:
		ev.Bool(key, v)
	case int:
		ev.Int(key, v)
	case int64:
		ev.Int64(key, v)
	case float64:
		ev.Float64(key, v)
	case time.Duration:
		ev.Dur(key, v)
	case []int:
		ev.Ints(key, v)
	case []float64:
		ev.Floats64(key, v)
	case fmt.Stringer:
		ev.Str(key, v.String())
	default:
		ev.Interface(key, v)
	}
}

// extractStacktrace pulls the stack trace that cockroachdb/errors records
// when an error is created or annotated with WithStack.
func extractStacktrace(err error) string {
	details := errors.GetSafeDetails(err).SafeDetails
	if len(details) > 0 {
		return details[0]
	}
	return ""
}
