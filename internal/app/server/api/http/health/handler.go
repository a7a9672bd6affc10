package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// ConnCounter reports the load of the funko listener.
type ConnCounter interface {
	ActiveConnections() int64
}

type Handler struct {
	conns      ConnCounter
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(conns ConnCounter, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		conns:      conns,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(_ context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	var active int64
	if h.conns != nil {
		active = h.conns.ActiveConnections()
	}

	return &Output{
		Body: Response{
			Status:            "OK",
			ActiveConnections: active,
		},
	}, nil
}
