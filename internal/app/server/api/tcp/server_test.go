package tcp

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	funkoAPI "funkokeeper/internal/app/server/api/tcp/funko"
	"funkokeeper/internal/domain/funko"
	"funkokeeper/internal/infrastructure/kv/fs"
	"funkokeeper/internal/infrastructure/storage"
	"funkokeeper/internal/protocol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type testServer struct {
	srv  *Server
	addr string
	root string
	done chan error
}

func startServer(t *testing.T, cfg Config) *testServer {
	t.Helper()

	root := t.TempDir()
	store, err := fs.New(root)
	require.NoError(t, err)

	log := slog.Default()
	repo := storage.NewFunkoRepository(store, log)
	handler := funkoAPI.NewHandler(funko.NewService(repo, log), log)
	srv := NewServer(cfg, handler, log)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ts := &testServer{srv: srv, addr: ln.Addr().String(), root: root, done: make(chan error, 1)}
	go func() {
		ts.done <- srv.Serve(ctx, ln)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-ts.done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return ts
}

func (ts *testServer) send(t *testing.T, raw string) protocol.Response {
	t.Helper()

	conn, err := net.DialTimeout("tcp", ts.addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	_, err = io.WriteString(conn, raw)
	require.NoError(t, err)

	// ReadAll returns only once the server has closed the connection.
	body, err := io.ReadAll(conn)
	require.NoError(t, err)

	resp, err := protocol.ReadResponse(bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

const vader = `{"id":1,"name":"Darth Vader","description":"Sith","type":"Pop! Star Wars","genre":"Star Wars","franchise":"Star Wars","number":1,"exclusive":false,"specialFeatures":"","marketValue":50}`

func TestServer_AliceLifecycle(t *testing.T) {
	ts := startServer(t, Config{ReadTimeout: time.Second, WriteTimeout: time.Second})

	resp := ts.send(t, `{"type":"add","user":"alice","funkoPop":[`+vader+`]}`)
	assert.True(t, resp.Success, resp.Message)
	assert.Equal(t, protocol.KindAdd, resp.Type)

	resp = ts.send(t, `{"type":"read","user":"alice","funkoPop":[{"id":1}]}`)
	require.True(t, resp.Success, resp.Message)
	require.Len(t, resp.FunkoPops, 1)
	assert.Equal(t, 1, resp.FunkoPops[0].ID)

	resp = ts.send(t, `{"type":"update","user":"alice","funkoPop":[{"id":1,"name":"X"}]}`)
	assert.True(t, resp.Success, resp.Message)

	resp = ts.send(t, `{"type":"read","user":"alice","funkoPop":[{"id":1}]}`)
	require.True(t, resp.Success, resp.Message)
	require.Len(t, resp.FunkoPops, 1)
	assert.Equal(t, "X", resp.FunkoPops[0].Name)
	assert.Equal(t, 50.0, resp.FunkoPops[0].MarketValue)

	resp = ts.send(t, `{"type":"remove","user":"alice","funkoPop":[{"id":1}]}`)
	assert.True(t, resp.Success, resp.Message)

	resp = ts.send(t, `{"type":"read","user":"alice","funkoPop":[{"id":1}]}`)
	assert.False(t, resp.Success)
	assert.Empty(t, resp.FunkoPops)

	resp = ts.send(t, `{"type":"list","user":"alice"}`)
	assert.True(t, resp.Success, resp.Message)
	assert.Equal(t, "alice's collection is empty", resp.Message)
}

func TestServer_BobInvalidMarketValue(t *testing.T) {
	ts := startServer(t, Config{})

	bad := strings.Replace(vader, `"marketValue":50`, `"marketValue":-5`, 1)
	resp := ts.send(t, `{"type":"add","user":"bob","funkoPop":[`+bad+`]}`)

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "market value")
	assert.NoDirExists(t, ts.root+"/bob")
}

func TestServer_FailureResponses(t *testing.T) {
	ts := startServer(t, Config{ReadTimeout: time.Second})

	tests := []struct {
		name     string
		raw      string
		wantType protocol.Kind
		wantMsg  string
	}{
		{
			name:     "unknown type",
			raw:      `{"type":"purge","user":"alice"}`,
			wantType: "purge",
			wantMsg:  "invalid request type",
		},
		{
			name:     "absent collection",
			raw:      `{"type":"list","user":"nobody"}`,
			wantType: protocol.KindList,
			wantMsg:  "no collection found for nobody",
		},
		{
			name:     "remove without collection",
			raw:      `{"type":"remove","user":"nobody","funkoPop":[{"id":3}]}`,
			wantType: protocol.KindRemove,
			wantMsg:  `user "nobody" has no Funkos stored`,
		},
		{
			name:     "path traversal user",
			raw:      `{"type":"list","user":"../../etc"}`,
			wantType: protocol.KindList,
			wantMsg:  `user "../../etc" must not contain path separators`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.send(t, tt.raw)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantType, resp.Type)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestServer_MalformedRequest(t *testing.T) {
	ts := startServer(t, Config{ReadTimeout: 200 * time.Millisecond})

	conn, err := net.Dial("tcp", ts.addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	_, err = io.WriteString(conn, `{"type":"add","user":"alice","funkoPop":[{"id":`)
	require.NoError(t, err)
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	resp, err := protocol.ReadResponse(conn)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, protocol.KindAdd, resp.Type)
	assert.Contains(t, resp.Message, "malformed request")
}

func TestServer_ReadTimeout(t *testing.T) {
	ts := startServer(t, Config{ReadTimeout: 100 * time.Millisecond})

	conn, err := net.Dial("tcp", ts.addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	// Send nothing; the server gives up and answers with a failure.
	resp, err := protocol.ReadResponse(conn)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, protocol.KindUnknown, resp.Type)
}

func TestServer_ReadRequestIsCapped(t *testing.T) {
	srv := NewServer(Config{MaxRequestBytes: 64}, nil, slog.Default())

	req, err := srv.readRequest(strings.NewReader(`{"type":"list","user":"` + strings.Repeat("a", 128) + `"}`))
	assert.ErrorIs(t, err, protocol.ErrDecode)
	assert.Equal(t, protocol.KindList, req.Type)

	req, err = srv.readRequest(strings.NewReader(`{"type":"list","user":"alice"}`))
	require.NoError(t, err)
	assert.Equal(t, "alice", req.User)

	assert.Equal(t, int64(DefaultMaxRequestBytes), NewServer(Config{}, nil, slog.Default()).cfg.MaxRequestBytes)
}

func TestServer_ConcurrentClients(t *testing.T) {
	ts := startServer(t, Config{ReadTimeout: time.Second})

	// A silent client must not block others.
	idle, err := net.Dial("tcp", ts.addr)
	require.NoError(t, err)
	defer idle.Close()

	require.Eventually(t, func() bool {
		return ts.srv.ActiveConnections() == 1
	}, time.Second, 10*time.Millisecond)

	resp := ts.send(t, `{"type":"add","user":"carol","funkoPop":[`+vader+`]}`)
	assert.True(t, resp.Success, resp.Message)

	require.NoError(t, idle.Close())
	assert.Eventually(t, func() bool {
		return ts.srv.ActiveConnections() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServer_StopsOnCancel(t *testing.T) {
	srv := NewServer(Config{}, funkoAPI.NewHandler(nil, slog.Default()), slog.Default())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	// A client that never sends anything is closed on shutdown.
	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		return srv.ActiveConnections() == 1
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Zero(t, srv.ActiveConnections())
}

func TestServer_WhitespaceOnlyIsMalformed(t *testing.T) {
	ts := startServer(t, Config{ReadTimeout: time.Second})

	conn, err := net.Dial("tcp", ts.addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	_, err = io.WriteString(conn, "  \n\t ")
	require.NoError(t, err)
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	resp, err := protocol.ReadResponse(conn)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, protocol.KindUnknown, resp.Type)
	assert.Contains(t, resp.Message, "malformed request")
}

func TestServer_SilentHangupGetsNoResponse(t *testing.T) {
	ts := startServer(t, Config{ReadTimeout: time.Second})

	conn, err := net.Dial("tcp", ts.addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	body, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestServer_TrackConnRefusedAfterShutdown(t *testing.T) {
	srv := NewServer(Config{}, nil, slog.Default())

	early, earlyPeer := net.Pipe()
	defer earlyPeer.Close()
	require.True(t, srv.trackConn(early))

	srv.closeAllConns()

	// A connection accepted after shutdown started is closed right away.
	late, latePeer := net.Pipe()
	defer latePeer.Close()
	assert.False(t, srv.trackConn(late))

	_, err := late.Write([]byte("x"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	_, err = early.Write([]byte("x"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
