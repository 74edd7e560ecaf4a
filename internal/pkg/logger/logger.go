package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

var globalLogger *slog.Logger

// ParseLevel maps a config level string onto a zap level. Unknown strings mean info.
func ParseLevel(levelStr string) (zapcore.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return zapcore.DebugLevel, true
	case "INFO", "":
		return zapcore.InfoLevel, true
	case "WARN", "WARNING":
		return zapcore.WarnLevel, true
	case "ERROR":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// NewZap builds the production zap logger used by the whole process.
func NewZap(levelStr string) (*zap.Logger, error) {
	level, ok := ParseLevel(levelStr)
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if !ok {
		z.Warn("Invalid log level string, defaulting to INFO", zap.String("input", levelStr))
	}
	return z, nil
}

// InitSlog routes the global slog logger into the given zap core.
func InitSlog(z *zap.Logger) {
	handler := zapslog.NewHandler(z.Core(), zapslog.WithName("app"))
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

func ensureInitialized() {
	if globalLogger == nil {
		z, err := NewZap("INFO")
		if err != nil {
			globalLogger = slog.Default()
			return
		}
		InitSlog(z)
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	ensureInitialized()
	if globalLogger.Enabled(context.Background(), slog.LevelDebug) {
		globalLogger.Debug(msg, args...)
	}
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Error(msg, args...)
}

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Error(msg, args...)
	os.Exit(1)
}
