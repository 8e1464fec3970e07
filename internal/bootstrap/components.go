// Package bootstrap assembles the runtime dependencies shared by the
// apiserver and worker binaries.
package bootstrap

import (
	"context"
	"time"

	"github.com/turtacn/timexnorm/internal/application/annotation"
	"github.com/turtacn/timexnorm/internal/config"
	"github.com/turtacn/timexnorm/internal/infrastructure/database/redis"
	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/timexnorm/internal/intelligence/common"
	"github.com/turtacn/timexnorm/internal/interfaces/http/handlers"
	"github.com/turtacn/timexnorm/pkg/errors"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// Components holds the initialised dependencies of one process.  Optional
// members are nil when disabled by configuration.
type Components struct {
	Config            *config.Config
	Logger            logging.Logger
	Collector         prometheus.MetricsCollector
	ServiceMetrics    *prometheus.ServiceMetrics
	NormaliserMetrics common.NormaliserMetrics
	Redis             *redis.Client
	Store             annotation.ResultStore
	Service           annotation.Service
}

// ServiceConfig derives the annotation settings from cfg.
func ServiceConfig(cfg *config.Config) annotation.ServiceConfig {
	return annotation.ServiceConfig{
		DefaultDomain:    cfg.Normaliser.Domain,
		UseDocumentState: cfg.Normaliser.UseDocumentState,
		Concurrency:      cfg.Worker.Concurrency,
		Format:           cfg.Worker.Format,
	}
}

// New wires metrics, the optional Redis result cache and the annotation
// service.  On error everything opened so far is closed.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Components, error) {
	if cfg == nil {
		return nil, errors.InvalidParam("config is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Components{Config: cfg, Logger: logger}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(cfg.Metrics, logger)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "metrics collector")
		}
		nm, err := common.NewPrometheusNormaliserMetrics(collector.Registerer())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "normaliser metrics")
		}
		c.Collector = collector
		c.ServiceMetrics = prometheus.NewServiceMetrics(collector)
		c.NormaliserMetrics = nm
	} else {
		c.NormaliserMetrics = common.NewNoopNormaliserMetrics()
	}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCacheError, "redis")
		}
		c.Redis = client
		store := redis.NewResultCache(redis.NewRedisCache(client, logger), cfg.Redis.TTL)
		c.Store = newInstrumentedStore(store, c.ServiceMetrics)
	}

	svc, err := annotation.NewService(ServiceConfig(cfg), c.Store, logger, c.NormaliserMetrics)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Service = svc

	logger.Info("components initialised",
		logging.String("domain", cfg.Normaliser.Domain),
		logging.Bool("metrics", c.Collector != nil),
		logging.Bool("result_cache", c.Store != nil))
	return c, nil
}

// HealthCheckers returns the readiness probes of the enabled dependencies.
func (c *Components) HealthCheckers() []handlers.HealthChecker {
	var checkers []handlers.HealthChecker
	if c.Redis != nil {
		checkers = append(checkers, handlers.CheckFunc{Component: "redis", Fn: c.Redis.Ping})
	}
	return checkers
}

// HealthRecorder returns the health gauge sink, or nil when metrics are off.
func (c *Components) HealthRecorder() handlers.HealthStatusRecorder {
	if c.ServiceMetrics == nil {
		return nil
	}
	return c.ServiceMetrics
}

// TrackUptime publishes the uptime gauge of service until stop is closed.
func (c *Components) TrackUptime(service string, stop <-chan struct{}) {
	if c.ServiceMetrics == nil {
		return
	}
	go c.ServiceMetrics.TrackUptime(service, 15*time.Second, stop)
}

// Close releases the Redis connection.
func (c *Components) Close() error {
	if c.Redis != nil {
		return c.Redis.Close()
	}
	return nil
}

// ---------------------------------------------------------------------------
// Result cache instrumentation
// ---------------------------------------------------------------------------

// instrumentedStore counts every cache round-trip and its outcome.
type instrumentedStore struct {
	inner   annotation.ResultStore
	metrics *prometheus.ServiceMetrics
}

func newInstrumentedStore(inner annotation.ResultStore, metrics *prometheus.ServiceMetrics) annotation.ResultStore {
	if metrics == nil {
		return inner
	}
	return &instrumentedStore{inner: inner, metrics: metrics}
}

func (s *instrumentedStore) Get(ctx context.Context, domain timex.Domain, ref, expr string) (timex.Result, bool, error) {
	res, ok, err := s.inner.Get(ctx, domain, ref, expr)
	s.metrics.RecordCacheOperation("get", err)
	if err != nil {
		s.metrics.RecordError("result_cache", string(errors.GetCode(err)))
	}
	return res, ok, err
}

func (s *instrumentedStore) Put(ctx context.Context, domain timex.Domain, ref, expr string, res timex.Result) error {
	err := s.inner.Put(ctx, domain, ref, expr, res)
	s.metrics.RecordCacheOperation("set", err)
	if err != nil {
		s.metrics.RecordError("result_cache", string(errors.GetCode(err)))
	}
	return err
}

//Personal.AI order the ending
