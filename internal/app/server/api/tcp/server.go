package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"funkokeeper/internal/protocol"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// DefaultMaxRequestBytes caps a request envelope when Config leaves it unset.
const DefaultMaxRequestBytes = 1 << 20

// Dispatcher turns decoded requests into responses.
type Dispatcher interface {
	Handle(ctx context.Context, req protocol.Request) protocol.Response
	Malformed(kind protocol.Kind, err error) protocol.Response
}

// Config bounds a single connection. Zero timeouts disable the deadline.
type Config struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRequestBytes int64
}

// Server accepts connections and answers exactly one request on each.
type Server struct {
	cfg     Config
	handler Dispatcher
	log     *slog.Logger

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}
	closing bool
	active  atomic.Int64
	wg      sync.WaitGroup
}

func NewServer(cfg Config, handler Dispatcher, log *slog.Logger) *Server {
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = DefaultMaxRequestBytes
	}
	return &Server{
		cfg:     cfg,
		handler: handler,
		log:     log.With("component", "tcp_server"),
		conns:   make(map[net.Conn]struct{}),
	}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or ln fails.
// Connections still in flight are closed on cancellation, and Serve
// returns only after their goroutines have finished.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.wg.Wait()
	defer ln.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.closeAllConns()
			_ = ln.Close()
		case <-stop:
		}
	}()

	s.log.Info("listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.log.Info("listener stopped")
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		if !s.trackConn(conn) {
			continue
		}
		s.wg.Add(1)
		go s.handleConn(ctx, conn)
	}
}

// ActiveConnections reports how many connections are being handled.
func (s *Server) ActiveConnections() int64 {
	return s.active.Load()
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer s.untrackConn(conn)
	defer conn.Close()

	s.active.Add(1)
	defer s.active.Add(-1)

	log := s.log.With("conn_id", uuid.NewString(), "remote", conn.RemoteAddr().String())
	log.Debug("client connected")

	if s.cfg.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			log.Warn("failed to set read deadline", "error", err)
		}
	}

	var resp protocol.Response
	req, err := s.readRequest(conn)
	switch {
	case errors.Is(err, io.EOF):
		log.Debug("client closed without sending a request")
		return
	case err != nil:
		resp = s.handler.Malformed(req.Type, err)
	default:
		log.Debug("request received", "type", req.Type, "user", req.User)
		resp = s.handler.Handle(ctx, req)
	}

	if s.cfg.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			log.Warn("failed to set write deadline", "error", err)
		}
	}
	if err := protocol.WriteResponse(conn, resp); err != nil {
		log.Error("failed to write response", "type", resp.Type, "error", err)
		return
	}

	log.Debug("response sent", "type", resp.Type, "success", resp.Success)
}

// readRequest decodes one envelope, reading at most MaxRequestBytes from r.
func (s *Server) readRequest(r io.Reader) (protocol.Request, error) {
	return protocol.ReadRequest(io.LimitReader(r, s.cfg.MaxRequestBytes))
}

// trackConn registers conn, or closes it and returns false once shutdown began.
func (s *Server) trackConn(conn net.Conn) bool {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	if s.closing {
		_ = conn.Close()
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrackConn(conn net.Conn) {
	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()
}

func (s *Server) closeAllConns() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	s.closing = true
	for conn := range s.conns {
		_ = conn.Close()
	}
}
