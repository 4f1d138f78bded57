package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "pharmacy-be"

var log *zap.Logger

// Options selects the encoding and minimum level of the process logger.
// Level is a zap level name; empty keeps the environment default (info in
// production, debug elsewhere).
type Options struct {
	Env   string
	Level string
}

func buildConfig(opts Options) (zap.Config, error) {
	var cfg zap.Config

	if opts.Env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
		// Rejected negotiations arrive in bursts and must all be logged.
		cfg.Sampling = nil
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.InitialFields = map[string]interface{}{"service": serviceName}

	if opts.Level != "" {
		level, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return cfg, fmt.Errorf("log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	return cfg, nil
}

// New builds a logger without installing it.
func New(opts Options) (*zap.Logger, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	return cfg.Build(zap.AddCaller())
}

// Init installs the process logger.
func Init(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	log = l
	return nil
}

// L returns the process logger, building one from APP_ENV and LOG_LEVEL
// when Init was not called. A bad LOG_LEVEL falls back to the default level.
func L() *zap.Logger {
	if log == nil {
		opts := Options{Env: os.Getenv("APP_ENV"), Level: os.Getenv("LOG_LEVEL")}
		if err := Init(opts); err != nil {
			opts.Level = ""
			if err := Init(opts); err != nil {
				log = zap.NewNop()
			}
		}
	}
	return log
}

// Sync flushes logs.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
