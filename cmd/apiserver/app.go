package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/turtacn/druglike/internal/application/screening"
	"github.com/turtacn/druglike/internal/chem/toolkit"
	"github.com/turtacn/druglike/internal/config"
	"github.com/turtacn/druglike/internal/domain/druglikeness"
	"github.com/turtacn/druglike/internal/infrastructure/database/redis"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/prometheus"
	httpapi "github.com/turtacn/druglike/internal/interfaces/http"
	"github.com/turtacn/druglike/internal/interfaces/http/handlers"
)

// app holds the wired server and the resources it must release.
type app struct {
	server  *httpapi.Server
	handler http.Handler
	redis   *redis.Client
	logger  logging.Logger
}

// newApp wires configuration into the screening service and the router.
// A configured but unreachable Redis is fatal for the server.
func newApp(cfg *config.Config, logger logging.Logger) (*app, error) {
	tk := toolkit.New()
	evaluator, err := druglikeness.NewEvaluator(tk)
	if err != nil {
		return nil, fmt.Errorf("evaluator: %w", err)
	}

	a := &app{logger: logger}
	svcOpts := []screening.Option{screening.WithRenderer(tk)}
	routerCfg := httpapi.RouterConfig{
		Logger:      logger.Named("http"),
		MaxBodySize: cfg.Server.MaxBodySize,
	}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		metrics := prometheus.NewAppMetrics(collector)
		svcOpts = append(svcOpts, screening.WithMetrics(metrics))
		routerCfg.Metrics = metrics
		routerCfg.MetricsCollector = collector
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	var checkers []handlers.HealthChecker
	if cfg.Redis.Enabled {
		rc, err := redis.NewClient(cfg.Redis, logger.Named("redis"))
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.redis = rc
		cacheOpts := []redis.CacheOption{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.KeyPrefix != "" {
			cacheOpts = append(cacheOpts, redis.WithPrefix(cfg.Redis.KeyPrefix))
		}
		svcOpts = append(svcOpts, screening.WithCache(redis.NewOutcomeCache(rc, logger, cacheOpts...)))
		checkers = append(checkers, handlers.CheckerFunc("redis", rc.Check))
	}

	svc := screening.NewService(evaluator, logger.Named("screening"), svcOpts...)
	routerCfg.Ro5Handler = handlers.NewRo5Handler(svc, cfg.Server.MaxBatchSize, logger)
	routerCfg.DepictionHandler = handlers.NewDepictionHandler(svc, cfg.Depiction, cfg.Server.MaxBatchSize, logger)
	routerCfg.HealthHandler = handlers.NewHealthHandler(version, checkers...)

	a.handler = httpapi.NewRouter(routerCfg)
	a.server = httpapi.NewServer(cfg.Server, a.handler, logger.Named("http"))
	return a, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *app) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- a.server.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	if err := a.server.Stop(context.Background()); err != nil {
		return err
	}
	return <-errc
}

// Close releases the Redis connection when one was opened.
func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
