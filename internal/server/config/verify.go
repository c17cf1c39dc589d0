package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/pkg/cmap"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func verifyServer(cfg *ServerSection) error {
	r := &cfg.Redis
	if err := verifyAddr("server.redis.addr", r.Addr); err != nil {
		return err
	}
	if r.ReadTimeout <= 0 || r.WriteTimeout <= 0 || r.IdleTimeout <= 0 {
		return invalid("server.redis timeouts must be positive")
	}
	if r.RateLimit < 0 {
		return invalid("server.redis.rate_limit must not be negative")
	}
	if r.MaxClients < 0 {
		return invalid("server.redis.max_clients must not be negative")
	}

	if cfg.HTTP.Enabled {
		if err := verifyAddr("server.http.addr", cfg.HTTP.Addr); err != nil {
			return err
		}
		if cfg.HTTP.Addr == r.Addr {
			return invalid("server.http.addr and server.redis.addr are both %s", r.Addr)
		}
		if cfg.HTTP.RateLimit < 0 {
			return invalid("server.http.rate_limit must not be negative")
		}
	}

	if cfg.ShutdownTimeout <= 0 {
		return invalid("server.shutdown_timeout must be positive")
	}
	return nil
}

func verifyAddr(key, addr string) error {
	if addr == "" {
		return invalid("%s is required", key)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return invalid("%s: %v", key, err)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if !cmap.ValidShardCount(cfg.ShardCount) {
		return invalid("storage.shard_count must be a power of two, got %d", cfg.ShardCount)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return invalid("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
		return nil
	default:
		return invalid("log.format %q is not json or text", cfg.Format)
	}
}
