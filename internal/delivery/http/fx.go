package http

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"delivery-http",
	fx.Provide(NewHandler),
	fx.Invoke(registerRoutes),
)

func registerRoutes(router *chi.Mux, handler *Handler) {
	handler.RegisterRoutes(router)
}
