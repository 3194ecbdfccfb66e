package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/workoutanalysis/internal/api"
	"example.com/workoutanalysis/internal/config"
	"example.com/workoutanalysis/internal/events"
	"example.com/workoutanalysis/internal/inference"
	"example.com/workoutanalysis/internal/pipeline"
	httptransport "example.com/workoutanalysis/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env", slog.Any("error", err))
	}
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	completer, err := inference.New(cfg.Inference, inference.WithLogger(logger))
	if err != nil {
		logger.Error("inference client", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.Inference.APIKey == "" {
		logger.Warn("no API key configured; analyses will fail until one is set", slog.String("provider", cfg.Inference.Provider))
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	var producer *events.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewKafkaProducer(cfg.KafkaBrokers)
		opts = append(opts, pipeline.WithPublisher(events.NewKafkaPublisher(producer, cfg.ResultTopic)))
		logger.Info("publishing analysis events", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.ResultTopic))
	}
	service := pipeline.NewService(completer, opts...)

	mux := http.NewServeMux()
	api.NewHandler(service, logger).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}, httptransport.Chain(mux,
		httptransport.CORS,
		httptransport.Logging(logger),
		httptransport.BodyLimit(httptransport.MaxBodyBytes),
	))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("workout analysis api listening", slog.String("address", cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("producer close failed", slog.Any("error", err))
		}
	}
}
