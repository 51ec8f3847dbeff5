package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New — JSON-логгер уровня level; dev включает консольный формат
func New(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Must — для cmd: при ошибке конфигурации откатывается на production-логгер
func Must(level string, dev bool) *zap.Logger {
	l, err := New(level, dev)
	if err == nil {
		return l
	}
	l, perr := zap.NewProduction()
	if perr != nil {
		return zap.NewNop()
	}
	l.Warn("falling back to default logger", zap.Error(err))
	return l
}
