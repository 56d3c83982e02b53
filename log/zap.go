package log

import (
	"strings"

	"github.com/bronystylecrazy/swagsummary/meta"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
	// DropFields lists field keys removed from every entry.
	DropFields []string `mapstructure:"drop_fields" yaml:"drop_fields"`
}

func NewZapLogger(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if meta.IsDevelopment() {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapConfig.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level, zapcore.DebugLevel))
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level, zapcore.InfoLevel))
	}

	var opts []zap.Option
	if len(cfg.DropFields) > 0 {
		opts = append(opts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return FilterFieldsCore(core, cfg.DropFields...)
		}))
	}
	return zapConfig.Build(opts...)
}

// ParseLevel maps a configured level name to a zap level, falling back to def.
func ParseLevel(level string, def zapcore.Level) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return def
	}
}

func NewEventLogger(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log}
}
