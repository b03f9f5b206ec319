package logger

import (
	"github.com/joeydtaylor/steeze-webapp/pkg/manifest"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Provide(ProvideLoggerMiddleware),
	fx.Provide(ProvideLogger),
)

func ProvideLoggerMiddleware(cfg manifest.Config) *Middleware {
	return &Middleware{access: newAccessLog(cfg.Log.Dir)}
}

func ProvideLogger(cfg manifest.Config) *zap.Logger { return NewLog(cfg.Log.Dir, "system.log") }
