// Package logger holds the process-wide zap logger so call sites log
// through one-line package functions.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.Logger

// Init builds the global logger. Production gets JSON output with zap's
// sampling defaults; everything else gets a colored console logger.
func Init(environment string) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	global = l
	return nil
}

func get() *zap.Logger {
	if global == nil {
		// Logging before Init: fall back to production defaults rather
		// than dropping the record.
		global, _ = zap.NewProduction(zap.AddCallerSkip(1))
	}
	return global
}

// Close flushes buffered records.
func Close() error {
	if global != nil {
		return global.Sync()
	}
	return nil
}

func Debug(msg string, fields ...zap.Field) {
	get().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	get().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	get().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	get().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	get().Fatal(msg, fields...)
}
