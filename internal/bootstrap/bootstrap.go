package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/application"
	"github.com/eliz29ese/hackUDC26/internal/catalog"
	"github.com/eliz29ese/hackUDC26/internal/config"
	"github.com/eliz29ese/hackUDC26/internal/consumer"
	"github.com/eliz29ese/hackUDC26/internal/engine"
	"github.com/eliz29ese/hackUDC26/internal/infrastructure/api"
	"github.com/eliz29ese/hackUDC26/internal/infrastructure/cache"
	meteosix "github.com/eliz29ese/hackUDC26/internal/infrastructure/http"
	"github.com/eliz29ese/hackUDC26/internal/infrastructure/storage"
	"github.com/eliz29ese/hackUDC26/internal/logger"
	"github.com/eliz29ese/hackUDC26/internal/normalizer"
	"github.com/eliz29ese/hackUDC26/internal/producer"
	"github.com/eliz29ese/hackUDC26/internal/profile"
	"github.com/eliz29ese/hackUDC26/internal/recommend"
	"github.com/eliz29ese/hackUDC26/internal/scheduler"
	"github.com/eliz29ese/hackUDC26/internal/window"
)

// RunPoller wires and runs the poll-side binary: MeteoSIX fetcher, Kafka
// producer and cron scheduler, blocking until SIGINT/SIGTERM.
func RunPoller() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("service", "insight-poller")
	log.Infof("Starting insight-poller in %s mode", cfg.App.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchSignals(cancel, log)

	fetcher := meteosix.NewMeteoSIXFetcher(cfg.MeteoSIX)

	kafkaProducer, err := producer.NewKafkaProducer(cfg.Kafka, log)
	if err != nil {
		return fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	cronScheduler := scheduler.NewCronScheduler(cfg.Scheduler.Timeout, log)

	service := application.NewPollService(
		fetcher,
		kafkaProducer,
		cronScheduler,
		cfg.MeteoSIX.LocationIDs,
		48*time.Hour,
		log,
	)

	checker := NewHealthChecker(cfg.HealthCheck, log)
	checker.Register("meteosix", fetcher.HealthCheck)
	checker.Register("kafka_producer", kafkaProducer.HealthCheck)
	if err := checker.CheckAll(ctx); err != nil {
		return fmt.Errorf("initial health checks failed: %w", err)
	}

	if err := service.Start(ctx, cfg.Scheduler.PollInterval); err != nil {
		return fmt.Errorf("failed to start poll service: %w", err)
	}

	<-ctx.Done()
	service.Stop()
	log.Info("Poller stopped gracefully")
	return nil
}

// RunAPI wires and runs the evaluation-side binary: Kafka consumer feeding
// the ingest pipeline, plus the HTTP API for evaluate and profile calls.
func RunAPI() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.App.LogLevel, cfg.App.Env).WithField("service", "insight-api")
	log.Infof("Starting insight-api in %s mode", cfg.App.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchSignals(cancel, log)

	seriesStore, err := storage.NewMinioSeriesStore(cfg.Minio, log)
	if err != nil {
		return fmt.Errorf("failed to create series store: %w", err)
	}

	profileStore, err := cache.NewRedisProfileStore(cfg.Redis, log)
	if err != nil {
		return fmt.Errorf("failed to create profile store: %w", err)
	}

	kafkaConsumer, err := consumer.NewKafkaConsumer(cfg.Kafka, log)
	if err != nil {
		return fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	cat := catalog.New(cfg.Indices)
	resolver := profile.NewResolver(cat, log)

	ingestor := application.NewSampleIngestor(
		normalizer.New(cfg.Engine.Interval, cfg.Engine.MaxGapIntervals),
		seriesStore,
		log,
	)

	evaluations := application.NewEvaluationService(
		cat,
		resolver,
		seriesStore,
		profileStore,
		window.NewSelector(),
		engine.New(cat, cfg.Engine.Workers, log),
		recommend.NewMapper(cat, log),
		log,
	)

	if err := kafkaConsumer.Consume(ctx, ingestor.Ingest); err != nil {
		return fmt.Errorf("failed to start Kafka consumer: %w", err)
	}

	handler := api.NewAPIHandler(evaluations, profileStore, resolver, window.Method(cfg.Engine.DownsampleMethod), log)
	middleware := api.NewMiddleware(cfg.API.RateLimit, cfg.API.RateLimitWindow, cfg.API.CorsAllowedOrigins, log)
	server := api.NewAPIServer(handler, middleware, cfg)

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	checker := NewHealthChecker(cfg.HealthCheck, log)
	checker.Register("series_store", seriesStore.HealthCheck)
	checker.Register("profile_store", profileStore.HealthCheck)
	checker.Register("kafka_consumer", kafkaConsumer.HealthCheck)
	go checker.RunPeriodic(ctx)

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Errorf("Failed to stop API server: %v", err)
	}
	if err := kafkaConsumer.Close(); err != nil {
		log.Errorf("Failed to close Kafka consumer: %v", err)
	}
	if err := profileStore.Close(); err != nil {
		log.Errorf("Failed to close profile store: %v", err)
	}

	log.Info("API stopped gracefully")
	return nil
}

func watchSignals(cancel context.CancelFunc, log logger.Logger) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalChan
		log.Infof("Received signal: %v. Shutting down...", sig)
		cancel()
	}()
}
