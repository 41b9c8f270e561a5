// Command apiserver serves the Rule of Five evaluator over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/druglike/internal/config"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (DRUGLIKE_* variables apply either way)")
	port := flag.Int("port", 0, "HTTP port (overrides server.port)")
	flag.Parse()

	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(cfg.Log.Logging())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", logging.Err(err))
	}
	defer a.Close()

	if *configPath != "" {
		watchConfig(*configPath, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting druglike API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()),
		logging.Bool("cache", cfg.Redis.Enabled),
		logging.Bool("metrics", cfg.Metrics.Enabled),
	)
	if err := a.Run(ctx); err != nil {
		logger.Error("server error", logging.Err(err))
		a.Close()
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// watchConfig applies log level changes from the config file without a
// restart. Everything else needs one.
func watchConfig(path string, logger logging.Logger) {
	err := config.Watch(path, func(cfg *config.Config) {
		if err := logger.SetLevel(cfg.Log.Level); err != nil {
			logger.Warn("ignoring invalid log level from reloaded config", logging.Err(err))
			return
		}
		logger.Info("configuration reloaded", logging.String("log_level", cfg.Log.Level))
	}, func(err error) {
		logger.Warn("configuration reload failed", logging.Err(err))
	})
	if err != nil {
		logger.Warn("configuration watch disabled", logging.Err(err))
	}
}
