package idempotency

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/soms/internal/domain"
)

const (
	defaultCleanupInterval  = 1 * time.Minute
	defaultCleanupBatchSize = 500
)

var (
	cleanupRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soms_idempotency_cleanup_runs_total",
		Help: "Total number of idempotency cleanup runs grouped by result.",
	}, []string{"result"})
	cleanupDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soms_idempotency_cleanup_deleted_total",
		Help: "Total number of expired idempotency records removed.",
	})
	cleanupLastDeleted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "soms_idempotency_cleanup_last_deleted",
		Help: "Number of idempotency records removed by the last cleanup run.",
	})
)

// CleanupOptions задаёт параметры фонового воркера очистки idempotency-ключей.
type CleanupOptions struct {
	Logger    *log.Entry
	Interval  time.Duration
	BatchSize int
}

// CleanupOption настраивает CleanupWorker.
type CleanupOption func(*CleanupOptions)

// WithLogger задаёт logger для воркера.
func WithLogger(logger *log.Entry) CleanupOption {
	return func(opts *CleanupOptions) {
		opts.Logger = logger
	}
}

// WithInterval задаёт частоту запуска очистки.
func WithInterval(interval time.Duration) CleanupOption {
	return func(opts *CleanupOptions) {
		opts.Interval = interval
	}
}

// WithBatchSize задаёт максимум удаляемых записей за один проход.
func WithBatchSize(batchSize int) CleanupOption {
	return func(opts *CleanupOptions) {
		opts.BatchSize = batchSize
	}
}

// CleanupWorker периодически удаляет истёкшие idempotency-записи.
type CleanupWorker struct {
	repo      domain.IdempotencyRepository
	logger    *log.Entry
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

// NewCleanupWorker создаёт воркер очистки.
func NewCleanupWorker(repo domain.IdempotencyRepository, options ...CleanupOption) *CleanupWorker {
	opts := CleanupOptions{
		Interval:  defaultCleanupInterval,
		BatchSize: defaultCleanupBatchSize,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "idempotency-cleanup")
	}

	if opts.Interval <= 0 {
		opts.Interval = defaultCleanupInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultCleanupBatchSize
	}

	return &CleanupWorker{
		repo:      repo,
		logger:    logger,
		interval:  opts.Interval,
		batchSize: opts.BatchSize,
		now:       time.Now,
	}
}

// Run запускает периодическую очистку до отмены ctx.
func (w *CleanupWorker) Run(ctx context.Context) {
	if w.repo == nil {
		w.logger.Warn("idempotency cleanup worker is disabled: repo is nil")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.cleanup(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.cleanup(ctx)
		}
	}
}

// cleanup удаляет истёкшие записи батчами, пока выборка не опустеет.
func (w *CleanupWorker) cleanup(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	before := w.now().UTC()
	totalDeleted := 0

	for {
		if ctx.Err() != nil {
			return
		}

		deleted, err := w.repo.DeleteExpired(before, w.batchSize)
		if err != nil {
			w.logger.WithError(err).Warn("failed to delete expired idempotency records")
			cleanupRuns.WithLabelValues("error").Inc()
			cleanupLastDeleted.Set(float64(totalDeleted))
			return
		}

		totalDeleted += deleted
		if deleted < w.batchSize {
			break
		}
	}

	cleanupRuns.WithLabelValues("ok").Inc()
	cleanupDeletedTotal.Add(float64(totalDeleted))
	cleanupLastDeleted.Set(float64(totalDeleted))

	if totalDeleted > 0 {
		w.logger.WithField("deleted", totalDeleted).Info("removed expired idempotency records")
	}
}
