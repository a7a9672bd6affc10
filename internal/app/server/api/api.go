// HTTP side of the funkokeeper server.
//
//GET /api/v1/health  # Liveness and listener load (public)

package api

import (
	healthAPI "funkokeeper/internal/app/server/api/http/health"
	"funkokeeper/internal/app/server/api/http/middleware"
	"funkokeeper/internal/app/server/api/http/middleware/logger"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health *healthAPI.Handler
}

// New создает *chi.Mux со всеми HTTP операциями через huma.Register
func New(conns healthAPI.ConnCounter, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Funkokeeper API", "1.0.0")
	API := humachi.New(mux, config)

	h := handlers(conns, log)
	h.Health.SetupRoutes(API)

	return mux
}

func handlers(conns healthAPI.ConnCounter, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(conns, log.With("component", "health"), middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
	}
}
