package logger

import (
	"fmt"

	"github.com/Leopold1975/travel_catalog/internal/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
}

type ZapLogger struct {
	lg *zap.SugaredLogger
}

func New(cfg config.Logger) (ZapLogger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return ZapLogger{}, fmt.Errorf("parse level error: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	if len(cfg.Output) != 0 {
		zapCfg.OutputPaths = cfg.Output
	}

	if len(cfg.ErrOutput) != 0 {
		zapCfg.ErrorOutputPaths = cfg.ErrOutput
	}

	l, err := zapCfg.Build()
	if err != nil {
		return ZapLogger{}, fmt.Errorf("build logger error: %w", err)
	}

	return ZapLogger{lg: l.Sugar()}, nil
}

func (zl ZapLogger) Debugf(template string, args ...interface{}) {
	zl.lg.Debugf(template, args...)
}

func (zl ZapLogger) Info(args ...interface{}) {
	zl.lg.Info(args...)
}

func (zl ZapLogger) Infof(template string, args ...interface{}) {
	zl.lg.Infof(template, args...)
}

func (zl ZapLogger) Warnf(template string, args ...interface{}) {
	zl.lg.Warnf(template, args...)
}

func (zl ZapLogger) Error(args ...interface{}) {
	zl.lg.Error(args...)
}

func (zl ZapLogger) Errorf(template string, args ...interface{}) {
	zl.lg.Errorf(template, args...)
}
