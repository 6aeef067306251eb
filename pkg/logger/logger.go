package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

func get() *zap.SugaredLogger {
	once.Do(func() {
		var cfg zap.Config
		if os.Getenv("ENVIRONMENT") == "development" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			cfg = zap.NewProductionConfig()
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: invalid LOG_LEVEL %q, using default: %v\n", level, err)
			}
		}

		l, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			l = zap.NewNop()
		}
		sugar = l.Sugar()
	})
	return sugar
}

// Replace swaps the backing logger.
func Replace(l *zap.Logger) {
	once.Do(func() {})
	sugar = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

func Info(format string, v ...interface{}) {
	get().Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	get().Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	get().Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	get().Warnf(format, v...)
}

// LogStepError records a failed downstream step of a multi-record sequence.
func LogStepError(recordID, step string, err error) {
	get().Warnw("sequence step failed", "record_id", recordID, "step", step, "error", err)
}

func Sync() {
	_ = get().Sync()
}
