// Package logger builds the process-wide zap logger and exposes
// package-level helpers for code that has no injected logger.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls how the logger is built.
type Options struct {
	// Level is a zap level name ("debug", "info", ...); empty means info.
	Level string
	// Path enables a rotating log file in addition to stdout.
	Path string
	// JSON selects the JSON encoder instead of console output.
	JSON bool
}

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// New builds a logger without installing it globally.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if opts.JSON {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if opts.Path != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Init builds a logger and makes it the one returned by L.
func Init(opts Options) (*zap.Logger, error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	Set(l)
	return l, nil
}

// Set replaces the global logger.
func Set(l *zap.Logger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

// L returns the global logger. It is a no-op logger until Init or Set.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func skip() *zap.Logger {
	return L().WithOptions(zap.AddCallerSkip(1))
}

func Debug(msg string, fields ...zap.Field) { skip().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { skip().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { skip().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { skip().Error(msg, fields...) }

func Fatal(msg string, fields ...zap.Field) { skip().Fatal(msg, fields...) }

// Sync flushes buffered entries.
func Sync() error {
	return L().Sync()
}
