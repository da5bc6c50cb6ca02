package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/soms/internal/app"
	"github.com/vladislavdragonenkov/soms/internal/version"
)

// Переменные окружения сервиса.
const (
	envHTTPAddr                    = "SOMS_HTTP_ADDR"
	envMetricsAddr                 = "SOMS_METRICS_ADDR"
	envStorageDriver               = "SOMS_STORAGE_DRIVER"
	envPostgresDSN                 = "SOMS_POSTGRES_DSN"
	envPostgresAutoMigrate         = "SOMS_POSTGRES_AUTO_MIGRATE"
	envKafkaBrokers                = "SOMS_KAFKA_BROKERS"
	envOutboxPollInterval          = "SOMS_OUTBOX_POLL_INTERVAL"
	envOutboxBatchSize             = "SOMS_OUTBOX_BATCH_SIZE"
	envOutboxMaxAttempts           = "SOMS_OUTBOX_MAX_ATTEMPTS"
	envOutboxRetryDelay            = "SOMS_OUTBOX_RETRY_DELAY"
	envIdempotencyCleanupInterval  = "SOMS_IDEMPOTENCY_CLEANUP_INTERVAL"
	envIdempotencyCleanupBatchSize = "SOMS_IDEMPOTENCY_CLEANUP_BATCH_SIZE"
)

// lookupFunc абстрагирует доступ к переменным окружения для тестов.
type lookupFunc func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfigFromEnv строит конфигурацию из окружения поверх значений
// по умолчанию. Некорректные значения не прерывают запуск: параметр
// остаётся дефолтным, а замечание попадает в warnings.
func readConfigFromEnv(lookup lookupFunc) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	readString(lookup, envHTTPAddr, &cfg.HTTPAddr)
	readString(lookup, envMetricsAddr, &cfg.MetricsAddr)
	readString(lookup, envPostgresDSN, &cfg.PostgresDSN)
	readString(lookup, envKafkaBrokers, &cfg.KafkaBrokers)

	if raw, ok := lookup(envStorageDriver); ok {
		cfg.StorageDriver = strings.ToLower(strings.TrimSpace(raw))
	}

	warnings = append(warnings, readBool(lookup, envPostgresAutoMigrate, &cfg.PostgresAutoMigrate)...)
	warnings = append(warnings, readDuration(lookup, envOutboxPollInterval, &cfg.OutboxPollInterval)...)
	warnings = append(warnings, readInt(lookup, envOutboxBatchSize, &cfg.OutboxBatchSize)...)
	warnings = append(warnings, readInt(lookup, envOutboxMaxAttempts, &cfg.OutboxMaxAttempts)...)
	warnings = append(warnings, readDuration(lookup, envOutboxRetryDelay, &cfg.OutboxRetryDelay)...)
	warnings = append(warnings, readDuration(lookup, envIdempotencyCleanupInterval, &cfg.IdempotencyCleanupInterval)...)
	warnings = append(warnings, readInt(lookup, envIdempotencyCleanupBatchSize, &cfg.IdempotencyCleanupBatchSize)...)

	return cfg, warnings
}

func readString(lookup lookupFunc, key string, dst *string) {
	if raw, ok := lookup(key); ok {
		if v := strings.TrimSpace(raw); v != "" {
			*dst = v
		}
	}
}

func readBool(lookup lookupFunc, key string, dst *bool) []string {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	default:
		return []string{fmt.Sprintf("%s: invalid boolean %q, using default", key, raw)}
	}
	return nil
}

func readDuration(lookup lookupFunc, key string, dst *time.Duration) []string {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}

	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return []string{fmt.Sprintf("%s: invalid duration %q, using default", key, raw)}
	}
	*dst = v
	return nil
}

func readInt(lookup lookupFunc, key string, dst *int) []string {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}

	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return []string{fmt.Sprintf("%s: invalid positive integer %q, using default", key, raw)}
	}
	*dst = v
	return nil
}

func main() {
	setupLogger()

	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"storage":      cfg.StorageDriver,
		"version":      version.GetVersion(),
	}).Info("запускаем сервис заказов на обслуживание")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("сервис остановлен")
}
