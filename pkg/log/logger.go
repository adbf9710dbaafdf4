package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the process-wide logger installed by SetupLogger.
type Config struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`

	// File enables rotating file output in addition to stderr when non-empty.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "text", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28}
}

var programLevel = new(slog.LevelVar)

// SetupLogger installs the default slog logger used by GetLogger.
func SetupLogger(cfg Config) error {
	level, err := ToLogLevel(cfg.Level)
	if err != nil {
		return err
	}
	programLevel.Set(level)

	var w io.Writer = os.Stderr
	if cfg.File != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
	}

	slog.SetDefault(slog.New(WrapByErrFmtHandler(newHandler(w, cfg.Format))))
	return nil
}

func newHandler(w io.Writer, format string) slog.Handler {
	ops := &slog.HandlerOptions{
		Level: programLevel,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.MessageKey {
				attr.Key = "message"
			}
			return attr
		},
	}
	if format == "json" {
		return slog.NewJSONHandler(w, ops)
	}
	return slog.NewTextHandler(w, ops)
}

// ToLogLevel parses a level name.
func ToLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
