// Package log provides the structured logging interface used across gocart.
//
// The Logger interface is a small, slog-compatible surface. Estimators obtain a
// named logger once at construction and attach model context with With:
//
//	logger := log.GetLoggerWithName("DecisionTreeClassifier").With(
//	    log.CriterionKey, "gini",
//	)
//	logger.Info("Tree built",
//	    log.OperationKey, log.OperationTrain,
//	    log.SamplesKey, 150,
//	    log.TreeHeightKey, 4,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with log/slog.
type Logger interface {
	// Debug logs a debug-level message with optional key-value fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional key-value fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional key-value fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error it is
	// attached under ErrAttrKey so that ErrFmtHandler can extract its stacktrace.
	//
	//	logger.Error("Training failed", err, log.OperationKey, log.OperationTrain)
	Error(msg string, fields ...any)

	// With returns a Logger that includes the given fields in every record.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level. Values match slog.Level.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

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

// LoggerProvider creates loggers. The package-level GetLogger and
// GetLoggerWithName delegate to the provider installed with SetProvider.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}
