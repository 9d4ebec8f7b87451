package logger

import (
	"github.com/DallanL/nms-like-n-subscribe/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"logger",
	fx.Provide(NewLogger),
)

func NewLogger(cfg *config.LoggingConfig) zerolog.Logger {
	return New(cfg.Level)
}
