package redisserver

import (
	"context"
	"errors"
	"io"
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

func testConfig() *Config {
	return &Config{
		Address:      "127.0.0.1:0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  5 * time.Second,
	}
}

func startServer(t *testing.T, cfg *Config) (*Server, *metric.Registry) {
	t.Helper()
	reg := metric.NewRegistry()
	srv := New(cfg, memory.New(), WithLogger(logger.Discard()), WithMetrics(reg))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, reg
}

type client struct {
	t  *testing.T
	nc net.Conn
	rd *resp.Reader
}

func dial(t *testing.T, srv *Server) *client {
	t.Helper()
	nc, err := net.DialTimeout("tcp", srv.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { nc.Close() })
	return &client{t: t, nc: nc, rd: resp.NewReader(nc)}
}

func (c *client) send(raw string) {
	c.t.Helper()
	if _, err := c.nc.Write([]byte(raw)); err != nil {
		c.t.Fatalf("Write() error = %v", err)
	}
}

func (c *client) do(args ...string) resp.Frame {
	c.t.Helper()
	c.send(string(resp.Encode(resp.BulkStrings(args...))))
	return c.read()
}

func (c *client) read() resp.Frame {
	c.t.Helper()
	_ = c.nc.SetReadDeadline(time.Now().Add(2 * time.Second))
	f, err := c.rd.ReadFrame()
	if err != nil {
		c.t.Fatalf("ReadFrame() error = %v", err)
	}
	return f
}

func (c *client) expectClosed() {
	c.t.Helper()
	_ = c.nc.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err := c.rd.ReadFrame()
	if err == nil {
		c.t.Fatal("ReadFrame() succeeded, want closed connection")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		c.t.Fatal("connection still open")
	}
}

func TestServer_Commands(t *testing.T) {
	srv, _ := startServer(t, testConfig())
	c := dial(t, srv)

	tests := []struct {
		args []string
		want resp.Frame
	}{
		{[]string{"GET", "hello"}, resp.Null{}},
		{[]string{"SET", "hello", "world"}, resp.OK},
		{[]string{"get", "hello"}, resp.BulkString("world")},
		{[]string{"HSET", "map", "hello", "world"}, resp.OK},
		{[]string{"HGET", "map", "hello"}, resp.BulkString("world")},
		{[]string{"HGETALL", "map"}, resp.Map{"hello": resp.BulkString("world")}},
		{[]string{"HGETALL", "nope"}, resp.Map{}},
		{[]string{"HMGET", "map", "hello", "x"}, resp.Array{resp.BulkString("world"), resp.Null{}}},
		{[]string{"SADD", "set", "a", "b"}, resp.OK},
		{[]string{"SISMEMBER", "set", "a"}, resp.Integer(1)},
		{[]string{"SISMEMBER", "set", "c"}, resp.Integer(0)},
		{[]string{"ECHO", "hi there"}, resp.BulkString("hi there")},
		{[]string{"PING"}, resp.SimpleString("PONG")},
		{[]string{"PING", "x"}, resp.BulkString("x")},
		{[]string{"FLUSHALL"}, resp.OK},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if got := c.do(tt.args...); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("reply = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestServer_Pipelining(t *testing.T) {
	srv, _ := startServer(t, testConfig())
	c := dial(t, srv)

	var batch []byte
	for _, args := range [][]string{
		{"SET", "k", "1"},
		{"GET", "k"},
		{"ECHO", "e"},
	} {
		batch = resp.AppendFrame(batch, resp.BulkStrings(args...))
	}
	c.send(string(batch))

	want := []resp.Frame{resp.OK, resp.BulkString("1"), resp.BulkString("e")}
	for i, w := range want {
		if got := c.read(); !reflect.DeepEqual(got, w) {
			t.Errorf("reply %d = %#v, want %#v", i, got, w)
		}
	}
}

func TestServer_SplitFrame(t *testing.T) {
	srv, _ := startServer(t, testConfig())
	c := dial(t, srv)

	c.send("*2\r\n$4\r\nECHO\r\n$5\r\nhel")
	time.Sleep(50 * time.Millisecond)
	c.send("lo\r\n")

	if got := c.read(); !reflect.DeepEqual(got, resp.BulkString("hello")) {
		t.Errorf("reply = %#v, want hello", got)
	}
}

func TestServer_InvalidCommandKeepsConnection(t *testing.T) {
	srv, reg := startServer(t, testConfig())
	c := dial(t, srv)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"missing argument", "*1\r\n$3\r\nget\r\n", "ERR invalid argument: wrong number of arguments for 'get' command"},
		{"not an array", "+PING\r\n", "ERR invalid command: command must be an array"},
		{"integer keyword", "*1\r\n:+1\r\n", "ERR invalid command: command must start with a bulk string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.send(tt.raw)
			got, ok := c.read().(resp.SimpleError)
			if !ok || !strings.HasPrefix(string(got), tt.want) {
				t.Errorf("reply = %q, want prefix %q", got, tt.want)
			}
		})
	}

	if got := c.do("PING"); got != resp.SimpleString("PONG") {
		t.Errorf("PING after errors = %#v", got)
	}
	if n := testutil.ToFloat64(reg.ProtocolErrors.WithLabelValues(metric.ErrorKindCommand)); n != 3 {
		t.Errorf("command errors = %v, want 3", n)
	}
}

func TestServer_ProtocolErrorCloses(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		kind string
	}{
		{"unknown sigil", "?bogus\r\n", "ERR protocol error", metric.ErrorKindFrame},
		{"negative length", "*1\r\n$-5\r\n", "ERR protocol error", metric.ErrorKindFrame},
		{"aggregate limit", "*1048577\r\n", "ERR protocol limit exceeded", metric.ErrorKindLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, reg := startServer(t, testConfig())
			c := dial(t, srv)

			c.send(tt.raw)
			got, ok := c.read().(resp.SimpleError)
			if !ok || !strings.HasPrefix(string(got), tt.want) {
				t.Errorf("reply = %q, want prefix %q", got, tt.want)
			}
			c.expectClosed()

			if n := testutil.ToFloat64(reg.ProtocolErrors.WithLabelValues(tt.kind)); n != 1 {
				t.Errorf("errors_total{kind=%s} = %v, want 1", tt.kind, n)
			}
		})
	}
}

func TestServer_Quit(t *testing.T) {
	srv, _ := startServer(t, testConfig())
	c := dial(t, srv)

	c.send(string(resp.Encode(resp.BulkStrings("QUIT"))) + string(resp.Encode(resp.BulkStrings("PING"))))
	if got := c.read(); got != resp.OK {
		t.Errorf("QUIT reply = %#v, want OK", got)
	}
	c.expectClosed()
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 1
	srv, reg := startServer(t, cfg)
	c := dial(t, srv)

	ping := string(resp.Encode(resp.BulkStrings("PING")))
	c.send(ping + ping + ping)

	if got := c.read(); got != resp.SimpleString("PONG") {
		t.Errorf("first reply = %#v, want PONG", got)
	}
	for i := 0; i < 2; i++ {
		if got := c.read(); got != errRateLimited {
			t.Errorf("reply %d = %#v, want rate limit error", i+2, got)
		}
	}
	if n := testutil.ToFloat64(reg.ProtocolErrors.WithLabelValues(metric.ErrorKindRateLimited)); n != 2 {
		t.Errorf("rate limited = %v, want 2", n)
	}
}

func TestServer_MaxClients(t *testing.T) {
	cfg := testConfig()
	cfg.MaxClients = 1
	srv, reg := startServer(t, cfg)

	first := dial(t, srv)
	if got := first.do("PING"); got != resp.SimpleString("PONG") {
		t.Fatalf("PING = %#v", got)
	}

	second := dial(t, srv)
	got, ok := second.read().(resp.SimpleError)
	if !ok || got != "ERR max number of clients reached" {
		t.Errorf("second client reply = %q", got)
	}
	second.expectClosed()

	if n := testutil.ToFloat64(reg.ConnectionsRejected); n != 1 {
		t.Errorf("rejected = %v, want 1", n)
	}
}

func TestServer_IdleTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.IdleTimeout = 100 * time.Millisecond
	srv, _ := startServer(t, cfg)

	c := dial(t, srv)
	if got := c.do("PING"); got != resp.SimpleString("PONG") {
		t.Fatalf("PING = %#v", got)
	}
	c.expectClosed()
}

func TestServer_ReadTimeoutMidFrame(t *testing.T) {
	cfg := testConfig()
	cfg.ReadTimeout = 100 * time.Millisecond
	srv, _ := startServer(t, cfg)

	c := dial(t, srv)
	c.send("*2\r\n$4\r\nECHO\r\n")
	c.expectClosed()
}

func TestServer_Shutdown(t *testing.T) {
	reg := metric.NewRegistry()
	srv := New(testConfig(), memory.New(), WithLogger(logger.Discard()), WithMetrics(reg))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	c := dial(t, srv)
	if got := c.do("PING"); got != resp.SimpleString("PONG") {
		t.Fatalf("PING = %#v", got)
	}
	if n := srv.ActiveConnections(); n != 1 {
		t.Errorf("ActiveConnections() = %d, want 1", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	c.expectClosed()
	if n := srv.ActiveConnections(); n != 0 {
		t.Errorf("ActiveConnections() after Shutdown = %d, want 0", n)
	}
	if n := testutil.ToFloat64(reg.ConnectionsActive); n != 0 {
		t.Errorf("connections_active = %v, want 0", n)
	}
	if _, err := net.DialTimeout("tcp", srv.Addr().String(), 200*time.Millisecond); err == nil {
		t.Error("listener still accepting after Shutdown")
	}
}

func TestServer_StartTwice(t *testing.T) {
	srv, _ := startServer(t, testConfig())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()

	if err := srv.Serve(context.Background(), ln); err == nil {
		t.Error("Serve() on a started server succeeded")
	}
}

func TestServer_Metrics(t *testing.T) {
	srv, reg := startServer(t, testConfig())
	c := dial(t, srv)

	c.do("SET", "a", "1")
	c.do("SET", "b", "2")
	c.do("GET", "a")

	if n := testutil.ToFloat64(reg.CommandsTotal.WithLabelValues("set")); n != 2 {
		t.Errorf("commands_total{set} = %v, want 2", n)
	}
	if n := testutil.ToFloat64(reg.CommandsTotal.WithLabelValues("get")); n != 1 {
		t.Errorf("commands_total{get} = %v, want 1", n)
	}
	if n := testutil.ToFloat64(reg.ConnectionsTotal); n != 1 {
		t.Errorf("connections_total = %v, want 1", n)
	}
}

func TestServer_ClientHalfFrameEOF(t *testing.T) {
	srv, _ := startServer(t, testConfig())
	c := dial(t, srv)

	c.send("*2\r\n$3\r\nGET")
	if tcp, ok := c.nc.(*net.TCPConn); ok {
		_ = tcp.CloseWrite()
	}
	_ = c.nc.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 16)
	if _, err := c.nc.Read(buf); !errors.Is(err, io.EOF) {
		t.Errorf("Read() error = %v, want io.EOF", err)
	}
}
