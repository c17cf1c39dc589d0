package connection

import (
	"context"
	"errors"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/pkg/resp"
)

func startServer(t *testing.T) string {
	t.Helper()
	cfg := redisserver.DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	srv := redisserver.New(cfg, memory.New(), redisserver.WithLogger(logger.Discard()))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String()
}

func dialTest(t *testing.T, addr string) *Client {
	t.Helper()
	c, err := Dial(context.Background(), addr, 2*time.Second)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_Do(t *testing.T) {
	c := dialTest(t, startServer(t))
	ctx := context.Background()

	tests := []struct {
		args []string
		want resp.Frame
	}{
		{[]string{"PING"}, resp.SimpleString("PONG")},
		{[]string{"SET", "k", "hello world"}, resp.SimpleString("OK")},
		{[]string{"GET", "k"}, resp.BulkString("hello world")},
		{[]string{"GET", "missing"}, resp.Null{}},
		{[]string{"GET"}, resp.SimpleError("ERR invalid argument: wrong number of arguments for 'get' command")},
	}

	for _, tt := range tests {
		got, err := c.Do(ctx, tt.args...)
		if err != nil {
			t.Fatalf("Do(%v) error = %v", tt.args, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Do(%v) = %#v, want %#v", tt.args, got, tt.want)
		}
	}
}

func TestClient_Pipeline(t *testing.T) {
	c := dialTest(t, startServer(t))

	replies, err := c.Pipeline(context.Background(), [][]string{
		{"SADD", "s", "a", "b"},
		{"SISMEMBER", "s", "a"},
		{"SISMEMBER", "s", "z"},
		{"ECHO", "hi"},
	})
	if err != nil {
		t.Fatalf("Pipeline() error = %v", err)
	}

	want := []resp.Frame{
		resp.SimpleString("OK"),
		resp.Integer(1),
		resp.Integer(0),
		resp.BulkString("hi"),
	}
	if !reflect.DeepEqual(replies, want) {
		t.Errorf("Pipeline() = %#v, want %#v", replies, want)
	}
}

func TestClient_QuitThenClosed(t *testing.T) {
	c := dialTest(t, startServer(t))
	ctx := context.Background()

	if _, err := c.Do(ctx, "QUIT"); err != nil {
		t.Fatalf("Do(QUIT) error = %v", err)
	}
	if _, err := c.Do(ctx, "PING"); err == nil {
		t.Fatal("Do() after QUIT should fail")
	}
	if !c.Closed() {
		t.Error("Closed() = false after I/O failure")
	}
	if _, err := c.Do(ctx, "PING"); !errors.Is(err, ErrClosed) {
		t.Errorf("Do() error = %v, want ErrClosed", err)
	}
}

func TestClient_EmptyCommand(t *testing.T) {
	c := dialTest(t, startServer(t))
	if _, err := c.Do(context.Background()); err == nil {
		t.Error("Do() with no args should fail")
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()
	go func() {
		nc, err := ln.Accept()
		if err == nil {
			defer nc.Close()
			time.Sleep(2 * time.Second)
		}
	}()

	c := dialTest(t, ln.Addr().String())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.Do(ctx, "PING"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want deadline exceeded", err)
	}
}

func TestDial_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := Dial(context.Background(), addr, time.Second); err == nil {
		t.Error("Dial() to a closed port should fail")
	}
}

func TestManager(t *testing.T) {
	addr := startServer(t)
	ctx := context.Background()
	m := NewManager(time.Second)

	if _, err := m.Client(ctx); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Client() error = %v, want ErrNotConnected", err)
	}

	if err := m.Connect(ctx, addr); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !m.IsConnected() || m.Addr() != addr {
		t.Fatalf("IsConnected() = %v, Addr() = %q", m.IsConnected(), m.Addr())
	}

	c, err := m.Client(ctx)
	if err != nil {
		t.Fatalf("Client() error = %v", err)
	}
	if _, err := c.Do(ctx, "QUIT"); err != nil {
		t.Fatalf("Do(QUIT) error = %v", err)
	}
	_, _ = c.Do(ctx, "PING")

	c2, err := m.Client(ctx)
	if err != nil {
		t.Fatalf("Client() after drop error = %v", err)
	}
	if c2 == c {
		t.Error("Client() should redial after the connection closed")
	}
	if got, err := c2.Do(ctx, "PING"); err != nil || got != resp.SimpleString("PONG") {
		t.Errorf("PING = %v, %v", got, err)
	}

	m.Disconnect()
	if m.IsConnected() {
		t.Error("IsConnected() = true after Disconnect")
	}
}
