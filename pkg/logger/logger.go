package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	LogLevel zapcore.Level `yaml:"logLevel" envconfig:"LOG_LEVEL" default:"debug"`
	Sink     string        `yaml:"sink" envconfig:"LOG_SINK"`
}

// NewLogger builds a named zap logger. An empty sink writes to stderr.
func NewLogger(cfg Log, name string) *zap.Logger {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.Sink != "" {
		zapCfg.OutputPaths = []string{cfg.Sink}
		zapCfg.ErrorOutputPaths = []string{cfg.Sink}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatal("logger build ", err)
	}
	return logger.Named(name)
}
