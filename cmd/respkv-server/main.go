package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/server/httpserver"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "respkv-server",
		Usage:   "RESP key/hash/set server",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"RESPKV_CONFIG"},
			},
			&cli.StringFlag{Name: "redis-addr", Usage: "RESP listen address (server.redis.addr)"},
			&cli.StringFlag{Name: "http-addr", Usage: "admin HTTP listen address (server.http.addr)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (log.level)"},
		},
		Action: func(c *cli.Context) error {
			overrides := flagOverrides(c)
			cfg, err := loadConfig(c.String("config"), overrides)
			if err != nil {
				return err
			}
			return run(c.Context, c.String("config"), overrides, cfg)
		},
	}
}

// flagOverrides maps the set flags onto configuration keys.
func flagOverrides(c *cli.Context) map[string]any {
	keys := map[string]string{
		"redis-addr": "server.redis.addr",
		"http-addr":  "server.http.addr",
		"log-level":  "log.level",
	}
	out := make(map[string]any)
	for flag, key := range keys {
		if c.IsSet(flag) {
			out[key] = c.String(flag)
		}
	}
	return out
}

// loadConfig merges defaults, file, environment and flags, then verifies.
func loadConfig(path string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func redisConfig(cfg *config.ServerConfig) *redisserver.Config {
	r := cfg.Server.Redis
	return &redisserver.Config{
		Address:      r.Addr,
		ReadTimeout:  r.ReadTimeout,
		WriteTimeout: r.WriteTimeout,
		IdleTimeout:  r.IdleTimeout,
		RateLimit:    r.RateLimit,
		MaxClients:   r.MaxClients,
	}
}

func run(ctx context.Context, configPath string, overrides map[string]any, cfg *config.ServerConfig) error {
	log, err := logger.New(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Output:    os.Stdout,
		AddSource: cfg.Log.AddSource,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting respkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", configPath)

	store := memory.New(memory.WithShardCount(cfg.Storage.ShardCount))
	log.Debug("storage ready", "shards", store.ShardCount())

	registry := metric.NewRegistry()
	registry.MustRegister(metric.NewKeyspaceCollector(func() map[string]int {
		return store.Stats().ByType()
	}))

	redisSrv := redisserver.New(redisConfig(cfg), store,
		redisserver.WithLogger(log),
		redisserver.WithMetrics(registry),
	)

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, shutdown.WithLogger(log))

	if err := redisSrv.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	log.Info("RESP server listening", "addr", redisSrv.Addr().String())
	shutdownHandler.OnShutdown("redis", redisSrv.Shutdown)

	if cfg.Server.HTTP.Enabled {
		if err := startHTTP(cfg, log, registry, store, redisSrv, shutdownHandler); err != nil {
			_ = redisSrv.Shutdown(context.Background())
			return err
		}
	}

	if configPath != "" {
		stop, err := watchConfig(configPath, overrides, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error { return stop() })
		}
	}

	log.Info("server started")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func startHTTP(
	cfg *config.ServerConfig,
	log logger.Logger,
	registry *metric.Registry,
	store *memory.Store,
	redisSrv *redisserver.Server,
	h *shutdown.Handler,
) error {
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Metrics: registry,
		Ready: func() error {
			if !redisSrv.Running() {
				return errors.New("RESP listener not running")
			}
			return nil
		},
		Stats: func() any {
			return map[string]any{
				"keyspace":    store.Stats(),
				"connections": redisSrv.ActiveConnections(),
			}
		},
		Logger:     log,
		RateLimit:  cfg.Server.HTTP.RateLimit,
		TrustProxy: cfg.Server.HTTP.TrustProxy,
	})

	ln, err := net.Listen("tcp", cfg.Server.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen http: %w", err)
	}
	httpSrv := httpserver.New(cfg.Server.HTTP.Addr, router)

	go func() {
		log.Info("admin HTTP server listening", "addr", ln.Addr().String())
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("admin HTTP server error", "error", err)
			h.Trigger()
		}
	}()

	h.OnShutdown("http", httpSrv.Shutdown)
	return nil
}

// watchConfig reapplies log.level whenever the configuration file changes.
// Other settings need a restart.
func watchConfig(path string, overrides map[string]any, log logger.Logger) (func() error, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := loadConfig(path, overrides)
		if err != nil {
			log.Warn("ignoring invalid config change", "error", err)
			return
		}
		prev := logger.GetLevel()
		logger.SetLevel(cfg.Log.Level)
		if cur := logger.GetLevel(); cur != prev {
			log.Info("log level changed", "from", prev, "to", cur)
		}
	})
	w.StartAsync()
	return w.Stop, nil
}
