package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
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

// run executes the app with an isolated config file and returns stdout and
// the exit code carried by the error, if any.
func run(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	full := append([]string{"respkv-cli", "--config", filepath.Join(t.TempDir(), "cli.yaml")}, args...)
	err := app.Run(full)

	code := 0
	if err != nil {
		code = 1
		if ec, ok := err.(cli.ExitCoder); ok {
			code = ec.ExitCode()
		}
	}
	return stdout.String(), code
}

func TestExec(t *testing.T) {
	addr := startServer(t)

	tests := []struct {
		name     string
		args     []string
		want     string
		wantCode int
	}{
		{"set", []string{"exec", "SET", "k", "v"}, "OK\n", 0},
		{"get", []string{"exec", "GET", "k"}, "\"v\"\n", 0},
		{"json", []string{"-o", "json", "exec", "GET", "k"}, "\"v\"\n", 0},
		{"yaml", []string{"-o", "yaml", "exec", "HGETALL", "none"}, "{}\n", 0},
		{"repeat", []string{"exec", "-r", "2", "ECHO", "x"}, "\"x\"\n\"x\"\n", 0},
		{"error reply", []string{"exec", "GET"}, "(error) ERR invalid argument: wrong number of arguments for 'get' command\n", 1},
		{"no command", []string{"exec"}, "", 2},
		{"bad repeat", []string{"exec", "-r", "0", "PING"}, "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--server", addr}, tt.args...)
			got, code := run(t, "", args...)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPing(t *testing.T) {
	addr := startServer(t)

	if got, code := run(t, "", "-s", addr, "ping"); code != 0 || got != "PONG\n" {
		t.Errorf("ping = %q (code %d)", got, code)
	}
	if got, code := run(t, "", "-s", addr, "ping", "hi"); code != 0 || got != "\"hi\"\n" {
		t.Errorf("ping hi = %q (code %d)", got, code)
	}
}

func TestPing_Unreachable(t *testing.T) {
	if _, code := run(t, "", "-s", "127.0.0.1:1", "-t", "200ms", "ping"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestBadOutputFormat(t *testing.T) {
	if _, code := run(t, "", "-o", "table", "ping"); code == 0 {
		t.Error("unknown output format should fail")
	}
}

func TestREPLDefault(t *testing.T) {
	addr := startServer(t)
	t.Setenv("HOME", t.TempDir())

	out, code := run(t, "SET a 1\nGET a\nexit\n", "-s", addr)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, addr+"> OK\n") || !strings.Contains(out, "\"1\"\n") {
		t.Errorf("unexpected REPL output:\n%s", out)
	}
}

func TestConfigFileServer(t *testing.T) {
	addr := startServer(t)
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: "+addr+"\noutput: json\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var stdout bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ExitErrHandler = func(*cli.Context, error) {}
	if err := app.Run([]string{"respkv-cli", "--config", path, "exec", "SISMEMBER", "s", "m"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := stdout.String(); got != "0\n" {
		t.Errorf("stdout = %q, want json 0", got)
	}
}

func TestConfigSaveAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cli.yaml")

	runApp := func(args ...string) string {
		t.Helper()
		var stdout bytes.Buffer
		app := App()
		app.Writer = &stdout
		app.ExitErrHandler = func(*cli.Context, error) {}
		if err := app.Run(append([]string{"respkv-cli", "--config", path}, args...)); err != nil {
			t.Fatalf("Run(%v) error = %v", args, err)
		}
		return stdout.String()
	}

	runApp("--server", "10.0.0.1:7000", "--output", "yaml", "config", "save")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server != "10.0.0.1:7000" || cfg.Output != "yaml" {
		t.Errorf("saved config = %+v", cfg)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, config.DefaultTimeout)
	}

	out := runApp("config", "show")
	for _, want := range []string{"# " + path, "server: 10.0.0.1:7000", "output: yaml"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}
