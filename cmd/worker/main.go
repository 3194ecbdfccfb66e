package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"

	"example.com/workoutanalysis/internal/config"
	"example.com/workoutanalysis/internal/consumer"
	"example.com/workoutanalysis/internal/events"
	"example.com/workoutanalysis/internal/inference"
	"example.com/workoutanalysis/internal/pipeline"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env", slog.Any("error", err))
	}
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	completer, err := inference.New(cfg.Inference, inference.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("inference client: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("worker metrics listening", slog.String("address", cfg.MetricsAddress))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	brokers := cfg.WorkerBrokers()
	producer := events.NewKafkaProducer(brokers)
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Error("producer close failed", slog.Any("error", err))
		}
	}()

	service := pipeline.NewService(completer,
		pipeline.WithLogger(logger),
		pipeline.WithPublisher(events.NewKafkaPublisher(producer, cfg.ResultTopic)))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        cfg.ConsumerGroup,
		Topic:          cfg.RequestTopic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
	procOpts := []consumer.Option{consumer.WithLogger(logger.With(slog.String("component", "consumer")))}
	if cfg.DeadLetterTopic != "" {
		procOpts = append(procOpts, consumer.WithDeadLetter(consumer.NewDeadLetterWriter(producer, cfg.DeadLetterTopic)))
	}
	proc := consumer.NewProcessor(reader, consumer.NewAnalysisRequestHandler(service), procOpts...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer reader.Close()
		if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("consumer stopped with error", slog.String("topic", cfg.RequestTopic), slog.Any("error", err))
		}
	}()
	logger.Info("workout analysis worker started", slog.Any("brokers", brokers), slog.String("topic", cfg.RequestTopic), slog.String("group", cfg.ConsumerGroup))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	logger.Info("workout analysis worker shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown error", slog.Any("error", err))
	}

	<-done
	return nil
}
