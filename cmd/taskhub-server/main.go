// Package main provides the entry point for taskhub-server.
//
// taskhub-server is the HTTP API service for TaskHub, a task
// management backend with per-user ownership and stateless
// bearer token authentication.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/arvel/taskhub-go/internal/core/service"
	"github.com/arvel/taskhub-go/internal/infra/buildinfo"
	"github.com/arvel/taskhub-go/internal/infra/confloader"
	"github.com/arvel/taskhub-go/internal/infra/shutdown"
	"github.com/arvel/taskhub-go/internal/server/config"
	"github.com/arvel/taskhub-go/internal/server/httpserver"
	"github.com/arvel/taskhub-go/internal/storage"
	"github.com/arvel/taskhub-go/internal/storage/memory"
	"github.com/arvel/taskhub-go/internal/telemetry/logger"
	"github.com/arvel/taskhub-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// store is the storage interface the server needs: both repositories
// plus lifecycle.
type store interface {
	service.UserRepository
	service.TaskRepository
	Close() error
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("taskhub-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, slogLogger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting taskhub-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	st, err := initStorage(cfg, slogLogger)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	accounts := service.NewAccountService(st)
	tasks := service.NewTaskService(st)
	tokens, err := service.NewTokenService(service.TokenServiceConfig{
		SigningKey: []byte(cfg.Security.SigningKey),
		TTL:        cfg.Security.TokenTTL,
	})
	if err != nil {
		return fmt.Errorf("init token service: %w", err)
	}

	metrics := metric.New()

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Accounts:           accounts,
		Tokens:             tokens,
		Tasks:              tasks,
		Metrics:            metrics,
		Logger:             slogLogger,
		CORSAllowedOrigins: cfg.Server.HTTP.CORSOrigins,
		RateLimit:          cfg.Server.HTTP.RateLimit,
		RateBurst:          cfg.Server.HTTP.RateBurst,
		EnableAudit:        cfg.Server.HTTP.EnableAudit,
	})

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router, httpserver.Options{
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
	})

	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout)

	// Shutdown hooks run in reverse order of startup.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("closing storage")
		return st.Close()
	})

	// Reload the log level when the config file changes.
	if *configFile != "" {
		watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(slogLogger))
		if err != nil {
			return fmt.Errorf("init config watcher: %w", err)
		}
		if err := watcher.Watch(*configFile); err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		watcher.OnChange(func(path string) {
			fresh, err := loadConfig(path)
			if err != nil {
				log.Warn("config reload failed", "path", path, "error", err)
				return
			}
			if fresh.Log.Level != logger.GetLevel() {
				log.Info("log level changed", "level", fresh.Log.Level)
				logger.SetLevel(fresh.Log.Level)
			}
		})
		watcher.StartAsync()
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			return watcher.Stop()
		})
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)

		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger.
// Returns both the logger interface and a slog.Logger for components
// that take the standard type.
func initLogger(cfg *config.ServerConfig) (logger.Logger, *slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, nil, err
	}

	logger.SetDefault(log)

	return log, logger.Slog(log), nil
}

// initStorage selects and opens the configured storage engine.
func initStorage(cfg *config.ServerConfig, log *slog.Logger) (store, error) {
	switch cfg.Storage.Engine {
	case "memory":
		return memory.NewStore(), nil
	case "badger", "":
		return storage.NewBadgerStore(storage.Config{
			Dir:        cfg.Storage.DataDir,
			SyncWrites: cfg.Storage.SyncWrites,
			GCInterval: cfg.Storage.GCInterval,
		}, log)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Storage.Engine)
	}
}
