package config

import "time"

// CLIConfig is the configuration for respkv-cli.
type CLIConfig struct {
	// Server is the default RESP address.
	Server string `yaml:"server"`

	// Output is the default output format: raw, json or yaml.
	Output string `yaml:"output"`

	// Timeout bounds dialing and each round trip.
	Timeout time.Duration `yaml:"timeout"`

	// HistoryFile is where the REPL keeps its history. Empty uses
	// ~/.respkv/history.
	HistoryFile string `yaml:"history_file,omitempty"`
}

// Default values.
const (
	DefaultServer  = "127.0.0.1:6379"
	DefaultOutput  = "raw"
	DefaultTimeout = 5 * time.Second
)

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  DefaultServer,
		Output:  DefaultOutput,
		Timeout: DefaultTimeout,
	}
}
