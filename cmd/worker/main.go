// Command worker annotates documents streamed through Kafka.
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
	"github.com/turtacn/timexnorm/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/timexnorm/internal/interfaces/http"
	"github.com/turtacn/timexnorm/internal/interfaces/http/handlers"
	"github.com/turtacn/timexnorm/internal/interfaces/worker"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: TIMEXNORM_* environment)")
	healthPort := flag.Int("health-port", 0, "port of the health and metrics endpoint (overrides server.port)")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *healthPort > 0 {
		cfg.Server.Port = *healthPort
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
		logger.Error("worker stopped with error", logging.Err(err))
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

	if cfg.Kafka.AutoCreateTopics {
		if err := ensureTopics(ctx, cfg, logger); err != nil {
			return err
		}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:    cfg.Kafka.Brokers,
		MaxRetries: cfg.Kafka.MaxRetries,
	}, logger)
	if err != nil {
		return err
	}
	defer producer.Close()

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topics:          []string{cfg.Kafka.InputTopic},
		AutoOffsetReset: cfg.Kafka.AutoOffsetReset,
		MaxRetries:      cfg.Kafka.MaxRetries,
		DeadLetterTopic: cfg.Kafka.DeadLetterTopic,
	}, producer, logger)
	if err != nil {
		return err
	}
	defer consumer.Close()

	var recorder worker.MessageRecorder
	if components.ServiceMetrics != nil {
		recorder = components.ServiceMetrics
	}
	annotator, err := worker.NewAnnotator(worker.Config{
		InputTopic:      cfg.Kafka.InputTopic,
		OutputTopic:     cfg.Kafka.OutputTopic,
		DeadLetterTopic: cfg.Kafka.DeadLetterTopic,
	}, components.Service, producer, logger, recorder)
	if err != nil {
		return err
	}
	annotator.Register(consumer)

	// Probes and /metrics only; the worker exposes no API routes.
	router := httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(version, components.HealthRecorder(), components.HealthCheckers()...),
		Logger:           logger,
		MetricsCollector: components.Collector,
	})
	srv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("health server failed", logging.Err(err))
		}
	}()

	uptimeStop := make(chan struct{})
	defer close(uptimeStop)
	components.TrackUptime("worker", uptimeStop)

	if err := consumer.Start(ctx); err != nil {
		return err
	}
	logger.Info("worker started",
		logging.String("version", version),
		logging.String("input_topic", cfg.Kafka.InputTopic),
		logging.String("output_topic", cfg.Kafka.OutputTopic),
		logging.String("group", cfg.Kafka.GroupID))

	<-ctx.Done()
	logger.Info("shutting down worker")

	if err := consumer.Close(); err != nil {
		logger.Warn("consumer close failed", logging.Err(err))
	}
	stats := consumer.Stats()
	logger.Info("consumer drained",
		logging.Int64("processed", stats.Processed),
		logging.Int64("dead_lettered", stats.DeadLettered))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func ensureTopics(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	manager, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger)
	if err != nil {
		return err
	}
	defer manager.Close()

	names := []string{cfg.Kafka.InputTopic, cfg.Kafka.OutputTopic, cfg.Kafka.DeadLetterTopic}
	var topics []kafka.TopicConfig
	for i, t := range kafka.DefaultTopics(cfg.Kafka.NumPartitions, cfg.Kafka.ReplicationFactor) {
		if names[i] == "" {
			continue
		}
		t.Name = names[i]
		topics = append(topics, t)
	}
	return manager.EnsureTopics(ctx, topics)
}

//Personal.AI order the ending
