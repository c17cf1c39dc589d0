package config

import "time"

// ServerConfig is the root configuration for respkv-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server" yaml:"server"`
	Storage StorageSection `koanf:"storage" yaml:"storage"`
	Log     LogSection     `koanf:"log" yaml:"log"`
}

// ServerSection configures the listeners.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis" yaml:"redis"`
	HTTP  HTTPConfig  `koanf:"http" yaml:"http"`

	// ShutdownTimeout bounds graceful shutdown after a signal.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// RedisConfig configures the RESP listener.
type RedisConfig struct {
	Addr         string        `koanf:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" yaml:"idle_timeout"`
	// RateLimit is commands per second per connection; 0 disables it.
	RateLimit int `koanf:"rate_limit" yaml:"rate_limit"`
	// MaxClients caps concurrent connections; 0 means unlimited.
	MaxClients int `koanf:"max_clients" yaml:"max_clients"`
}

// HTTPConfig configures the admin listener serving metrics and health.
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled"`
	Addr    string `koanf:"addr" yaml:"addr"`
	// RateLimit is requests per second per client IP; 0 disables it.
	RateLimit int `koanf:"rate_limit" yaml:"rate_limit"`
	// TrustProxy keys the rate limit on X-Forwarded-For and X-Real-IP
	// instead of the peer address.
	TrustProxy bool `koanf:"trust_proxy" yaml:"trust_proxy"`
}

// StorageSection configures the in-memory backend.
type StorageSection struct {
	// ShardCount is the shard count of each keyspace; a power of two.
	ShardCount int `koanf:"shard_count" yaml:"shard_count"`
}

// LogSection configures logging.
type LogSection struct {
	Level     string `koanf:"level" yaml:"level"`
	Format    string `koanf:"format" yaml:"format"`
	AddSource bool   `koanf:"add_source" yaml:"add_source"`
}
