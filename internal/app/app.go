package app

import (
	"github.com/DallanL/nms-like-n-subscribe/config"
	"github.com/DallanL/nms-like-n-subscribe/internal/clock"
	deliveryhttp "github.com/DallanL/nms-like-n-subscribe/internal/delivery/http"
	"github.com/DallanL/nms-like-n-subscribe/internal/delivery/scheduler"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain"
	"github.com/DallanL/nms-like-n-subscribe/internal/infrastructure/database"
	"github.com/DallanL/nms-like-n-subscribe/internal/infrastructure/httpserver"
	"github.com/DallanL/nms-like-n-subscribe/internal/infrastructure/kafka"
	"github.com/DallanL/nms-like-n-subscribe/internal/infrastructure/logger"
	"go.uber.org/fx"
)

func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),

		logger.Module,
		clock.Module,
		database.Module,
		kafka.Module,

		domain.Module,

		httpserver.Module,
		deliveryhttp.Module,
		scheduler.Module,
	)
}
