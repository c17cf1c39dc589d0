package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr    = "127.0.0.1:6379"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 5 * time.Minute
	DefaultMaxClients   = 10000

	DefaultHTTPAddr        = "127.0.0.1:6380"
	DefaultShutdownTimeout = 15 * time.Second

	DefaultShardCount = 64

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:         DefaultRedisAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
				MaxClients:   DefaultMaxClients,
			},
			HTTP: HTTPConfig{
				Enabled: true,
				Addr:    DefaultHTTPAddr,
			},
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Storage: StorageSection{
			ShardCount: DefaultShardCount,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
