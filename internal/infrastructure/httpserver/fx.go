package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/DallanL/nms-like-n-subscribe/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"httpserver",
	fx.Provide(NewRouter),
	fx.Invoke(registerHTTPServer),
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	return r
}

func registerHTTPServer(
	lc fx.Lifecycle,
	cfg *config.ServiceConfig,
	router *chi.Mux,
	log zerolog.Logger,
) {
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info().Str("port", cfg.Port).Msg("HTTP server started")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("HTTP server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
