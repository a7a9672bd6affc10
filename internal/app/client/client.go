package client

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/exp/slog"

	"funkokeeper/internal/app/client/config"
	"funkokeeper/internal/domain/funko"
	"funkokeeper/internal/protocol"
)

// ErrRejected wraps the message of a response whose Success flag is false.
var ErrRejected = errors.New("request rejected")

// App talks to a funkokeeper server, one connection per request.
type App struct {
	cfg    *config.Config
	log    *slog.Logger
	dialer net.Dialer
}

func New(cfg *config.Config, log *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		log:    log.With("component", "funko_client"),
		dialer: net.Dialer{Timeout: cfg.DialTimeout},
	}
}

// Send delivers req and waits for the server's single response.
func (a *App) Send(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	conn, err := a.dialer.DialContext(ctx, "tcp", a.cfg.ServerAddress)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("connect to %s: %w", a.cfg.ServerAddress, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return protocol.Response{}, fmt.Errorf("set deadline: %w", err)
		}
	}

	// Закрываем соединение при отмене контекста, чтобы не висеть на чтении
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	a.log.Debug("sending request", "type", req.Type, "user", req.User, "server", a.cfg.ServerAddress)

	if err := protocol.WriteRequest(conn, req); err != nil {
		return protocol.Response{}, err
	}
	resp, err := protocol.ReadResponse(conn)
	if err != nil {
		if ctx.Err() != nil {
			return protocol.Response{}, ctx.Err()
		}
		return protocol.Response{}, err
	}

	a.log.Debug("response received", "type", resp.Type, "success", resp.Success)
	return resp, nil
}

// Do is Send that turns an unsuccessful response into an error wrapping ErrRejected.
func (a *App) Do(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	resp, err := a.Send(ctx, req)
	if err != nil {
		return resp, err
	}
	if !resp.Success {
		return resp, fmt.Errorf("%w: %s", ErrRejected, resp.Message)
	}
	return resp, nil
}

func (a *App) Add(ctx context.Context, user string, f funko.Funko) (protocol.Response, error) {
	return a.Do(ctx, protocol.Request{
		Type:     protocol.KindAdd,
		User:     user,
		FunkoPop: []protocol.Payload{protocol.NewPayload(f)},
	})
}

func (a *App) Read(ctx context.Context, user string, id int) (protocol.Response, error) {
	return a.Do(ctx, protocol.Request{
		Type:     protocol.KindRead,
		User:     user,
		FunkoPop: []protocol.Payload{{ID: &id}},
	})
}

// Update sends only the fields set in p; p.ID selects the record.
func (a *App) Update(ctx context.Context, user string, p protocol.Payload) (protocol.Response, error) {
	return a.Do(ctx, protocol.Request{
		Type:     protocol.KindUpdate,
		User:     user,
		FunkoPop: []protocol.Payload{p},
	})
}

func (a *App) Remove(ctx context.Context, user string, id int) (protocol.Response, error) {
	return a.Do(ctx, protocol.Request{
		Type:     protocol.KindRemove,
		User:     user,
		FunkoPop: []protocol.Payload{{ID: &id}},
	})
}

func (a *App) List(ctx context.Context, user string) (protocol.Response, error) {
	return a.Do(ctx, protocol.Request{
		Type: protocol.KindList,
		User: user,
	})
}

type appKey struct{}

// WithApp stores the App for cobra commands.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// FromContext returns the App stored by WithApp.
func FromContext(ctx context.Context) (*App, bool) {
	app, ok := ctx.Value(appKey{}).(*App)
	return app, ok && app != nil
}
