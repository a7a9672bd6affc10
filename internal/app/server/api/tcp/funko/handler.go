package funko

import (
	"context"
	"fmt"

	"funkokeeper/internal/domain/funko"
	"funkokeeper/internal/protocol"

	"golang.org/x/exp/slog"
)

// Handler routes decoded requests to the collection service.
type Handler struct {
	service funko.Servicer
	log     *slog.Logger
}

func NewHandler(service funko.Servicer, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With("component", "funko_handler"),
	}
}

// Handle answers one request. It never panics: a failing operation
// becomes a response with Success set to false.
func (h *Handler) Handle(ctx context.Context, req protocol.Request) (resp protocol.Response) {
	kind := req.Type
	if kind == "" {
		kind = protocol.KindUnknown
	}

	defer func() {
		if r := recover(); r != nil {
			h.log.Error("panic while handling request", "type", kind, "user", req.User, "panic", r)
			resp = failure(kind, fmt.Errorf("internal error: %v", r))
		}
	}()

	switch req.Type {
	case protocol.KindAdd:
		return h.add(ctx, req)
	case protocol.KindRead:
		return h.read(ctx, req)
	case protocol.KindUpdate:
		return h.update(ctx, req)
	case protocol.KindRemove:
		return h.remove(ctx, req)
	case protocol.KindList:
		return h.list(ctx, req)
	default:
		h.log.Warn("invalid request type", "type", req.Type, "user", req.User)
		return protocol.Response{Type: kind, Success: false, Message: "invalid request type"}
	}
}

// Malformed answers a request that could not be decoded.
func (h *Handler) Malformed(kind protocol.Kind, err error) protocol.Response {
	h.log.Warn("malformed request", "type", kind, "error", err)
	return failure(kind, err)
}

func (h *Handler) add(ctx context.Context, req protocol.Request) protocol.Response {
	p, err := payload(req)
	if err != nil {
		return failure(req.Type, err)
	}

	f, err := h.service.Add(ctx, req.User, p.ToFunko())
	if err != nil {
		return failure(req.Type, err)
	}
	return success(req.Type, fmt.Sprintf("Funko with ID %d added to %s's collection", f.ID, req.User))
}

func (h *Handler) read(ctx context.Context, req protocol.Request) protocol.Response {
	p, err := payload(req)
	if err != nil {
		return failure(req.Type, err)
	}

	f, err := h.service.Read(ctx, req.User, p.IDOrZero())
	if err != nil {
		return failure(req.Type, err)
	}

	resp := success(req.Type, fmt.Sprintf("Funko found: %s", f.Name))
	resp.FunkoPops = []funko.Funko{f}
	return resp
}

func (h *Handler) update(ctx context.Context, req protocol.Request) protocol.Response {
	p, err := payload(req)
	if err != nil {
		return failure(req.Type, err)
	}

	f, err := h.service.Update(ctx, req.User, p.IDOrZero(), p.ToPatch())
	if err != nil {
		return failure(req.Type, err)
	}
	return success(req.Type, fmt.Sprintf("Funko with ID %d updated", f.ID))
}

func (h *Handler) remove(ctx context.Context, req protocol.Request) protocol.Response {
	p, err := payload(req)
	if err != nil {
		return failure(req.Type, err)
	}

	id := p.IDOrZero()
	if err := h.service.Remove(ctx, req.User, id); err != nil {
		return failure(req.Type, err)
	}
	return success(req.Type, fmt.Sprintf("Funko with ID %d removed from %s's collection", id, req.User))
}

func (h *Handler) list(ctx context.Context, req protocol.Request) protocol.Response {
	res, err := h.service.List(ctx, req.User)
	if err != nil {
		return failure(req.Type, err)
	}

	if res.Empty {
		return success(req.Type, fmt.Sprintf("%s's collection is empty", req.User))
	}

	resp := success(req.Type, fmt.Sprintf("%s's collection holds %d Funkos", req.User, len(res.Funkos)))
	resp.FunkoPops = res.Funkos
	return resp
}

// payload returns the single funko a mutating or addressing request carries.
func payload(req protocol.Request) (protocol.Payload, error) {
	if len(req.FunkoPop) == 0 || req.FunkoPop[0].ID == nil {
		return protocol.Payload{}, &funko.DomainError{
			Err:     funko.ErrValidation,
			Message: fmt.Sprintf("%s request requires a funkoPop with an id", req.Type),
		}
	}
	return req.FunkoPop[0], nil
}

func success(kind protocol.Kind, msg string) protocol.Response {
	return protocol.Response{Type: kind, Success: true, Message: msg}
}

func failure(kind protocol.Kind, err error) protocol.Response {
	return protocol.Response{Type: kind, Success: false, Message: err.Error()}
}
