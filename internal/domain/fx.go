package domain

import (
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"domain",
	subscription.Module,
)
