package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("output: json\ntimeout: 2s\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != "json" || cfg.Timeout != 2*time.Second {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Server != DefaultServer {
		t.Errorf("Server = %q, want default %q", cfg.Server, DefaultServer)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: [\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail for invalid YAML")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cli.yaml")
	want := &CLIConfig{Server: "10.0.0.1:6400", Output: "yaml", Timeout: time.Second, HistoryFile: "/tmp/h"}

	if err := Save(want, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()
	if got := cfg.HistoryPath(); filepath.Base(got) != "history" {
		t.Errorf("HistoryPath() = %q", got)
	}
	cfg.HistoryFile = "/var/tmp/respkv_history"
	if got := cfg.HistoryPath(); got != "/var/tmp/respkv_history" {
		t.Errorf("HistoryPath() = %q", got)
	}
}
