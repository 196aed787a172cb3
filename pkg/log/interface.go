// Package log provides a structured logging interface for splinefit
// operations.
//
// This package defines a minimal logging interface that allows for flexible
// implementation switching while providing fitting-specific structured
// logging capabilities. The default implementation is backed by zerolog and
// understands the structured error types in pkg/errors, attaching stack
// traces and error context automatically.
//
// Key features:
//   - Implementation-agnostic interface with levels compatible with slog
//   - Fitting-specific structured attributes (operations, data shapes, spline configuration)
//   - Context-aware logging with field chaining
//   - Test-friendly with configurable output destinations
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ModelNameKey, "BSplineRegressor",
//	    log.EstimatorIDKey, "bspline-001",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 1000,
//	    log.VariablesKey, 2,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface with levels compatible with
// Go's log/slog.
//
// The interface supports method chaining through the With method, allowing
// for creation of contextual loggers with pre-populated fields. Fields are
// given as alternating key-value pairs; keys should be strings, preferably
// the attribute constants defined in this package.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	// Debug logs carry detailed diagnostic information such as per-dimension
	// knot counts and are usually disabled in production environments.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	// Info logs are used for general operational information about
	// fitting and prediction flow.
	//
	// Example:
	//
	//	logger.Info("Fit completed",
	//	    log.DurationMsKey, 5432,
	//	    log.ControlPointsKey, 64,
	//	)
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	// Warning logs indicate potentially problematic situations, such as an
	// ill-conditioned coefficient system, that don't prevent the operation
	// from completing.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If an error value is provided as the first field, stack trace
	// information is included automatically when available.
	//
	// Example:
	//
	//	logger.Error("Fit failed",
	//	    err,
	//	    log.OperationKey, log.OperationFit,
	//	    log.SamplesKey, 1000,
	//	)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	// This method enables creation of contextual loggers that automatically
	// include common fields in all subsequent log messages.
	//
	// Example:
	//
	//	contextLogger := logger.With(
	//	    log.ModelNameKey, "BSplineRegressor",
	//	    log.EstimatorIDKey, "bspline-123",
	//	)
	//	contextLogger.Info("Starting training") // includes model info
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given
	// level. It can be used to avoid expensive field construction for
	// messages that won't be emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider defines an interface for creating and configuring loggers.
// This interface allows for dependency injection and testing with different
// logger implementations.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific name/component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
