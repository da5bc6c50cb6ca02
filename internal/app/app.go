// Package app собирает сервис целиком: хранилище, Kafka, сервисы,
// HTTP API, служебный HTTP и фоновые воркеры.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/soms/internal/health"
	"github.com/vladislavdragonenkov/soms/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/soms/internal/metrics"
	"github.com/vladislavdragonenkov/soms/internal/service/customers"
	"github.com/vladislavdragonenkov/soms/internal/service/idempotency"
	"github.com/vladislavdragonenkov/soms/internal/service/outbox"
	"github.com/vladislavdragonenkov/soms/internal/service/serviceorders"
	"github.com/vladislavdragonenkov/soms/internal/transport/httpapi"
	"github.com/vladislavdragonenkov/soms/internal/version"
)

// Run запускает сервис и блокируется до отмены ctx или ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if deps.closeFn != nil {
		defer func() { _ = deps.closeFn() }()
	}

	serviceMetrics := metrics.NewServiceMetrics()

	// Kafka опционален: без брокеров outbox-сообщения остаются pending.
	producer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(producer, logger)

	serviceLogger := logger.WithField("layer", "service")
	customerService := customers.NewService(deps.customerRepo, deps.outboxRepo, serviceMetrics, serviceLogger)
	orderService := serviceorders.NewService(
		deps.orderRepo,
		deps.customerRepo,
		deps.timelineRepo,
		deps.outboxRepo,
		serviceMetrics,
		serviceLogger,
	)

	apiServer := httpapi.NewServer(customerService, orderService, deps.idempotencyRepo, logger.WithField("layer", "http"))

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	if deps.storageChecker != nil {
		healthHandler.RegisterChecker("storage", deps.storageChecker)
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	if producer != nil {
		eventPublisher := kafka.NewOutboxPublisher(producer, "")
		dlqPublisher := kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue)
		outboxWorker := outbox.NewWorker(
			deps.outboxRepo,
			eventPublisher,
			outbox.WithLogger(logger.WithField("component", "outbox-worker")),
			outbox.WithDLQPublisher(dlqPublisher),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
			outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
		)
		go outboxWorker.Run(workerCtx)
	} else {
		logger.Info("kafka is not configured, outbox messages will stay pending")
	}

	cleanupWorker := idempotency.NewCleanupWorker(
		deps.idempotencyRepo,
		idempotency.WithLogger(logger.WithField("component", "idempotency-cleanup")),
		idempotency.WithInterval(cfg.IdempotencyCleanupInterval),
		idempotency.WithBatchSize(cfg.IdempotencyCleanupBatchSize),
	)
	go cleanupWorker.Run(workerCtx)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: apiServer.Handler()}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP серверы")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает служебный HTTP: метрики и health checks.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
