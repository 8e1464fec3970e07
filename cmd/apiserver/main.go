// Command apiserver serves the normalisation and annotation HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/timexnorm/internal/bootstrap"
	"github.com/turtacn/timexnorm/internal/config"
	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/timexnorm/internal/interfaces/http"
	"github.com/turtacn/timexnorm/internal/interfaces/http/handlers"
	"github.com/turtacn/timexnorm/internal/interfaces/http/middleware"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: TIMEXNORM_* environment)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	if *configPath != "" {
		config.WatchLogLevel(*configPath, logger)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("apiserver stopped with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer components.Close()

	uptimeStop := make(chan struct{})
	defer close(uptimeStop)
	components.TrackUptime("apiserver", uptimeStop)

	cors := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		cors.AllowedOrigins = cfg.Server.AllowedOrigins
	}
	logCfg := middleware.DefaultLoggingConfig()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		TimexHandler:     handlers.NewTimexHandler(components.Service, logger, cfg.Server.MaxBodySize),
		HealthHandler:    handlers.NewHealthHandler(version, components.HealthRecorder(), components.HealthCheckers()...),
		CORS:             &cors,
		Logging:          &logCfg,
		Logger:           logger,
		MetricsCollector: components.Collector,
		ServiceMetrics:   components.ServiceMetrics,
	})

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:            cfg.Server.Addr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     2 * cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	logger.Info("apiserver started",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()),
		logging.String("domain", cfg.Normaliser.Domain))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down apiserver")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

//Personal.AI order the ending
