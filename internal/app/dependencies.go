package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/soms/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/soms/internal/health"
	"github.com/vladislavdragonenkov/soms/internal/storage/memory"
	"github.com/vladislavdragonenkov/soms/internal/storage/postgres"
)

// runtimeDependencies объединяет репозитории выбранного хранилища.
type runtimeDependencies struct {
	customerRepo    domain.CustomerRepository
	orderRepo       domain.ServiceOrderRepository
	timelineRepo    domain.TimelineRepository
	outboxRepo      domain.OutboxRepository
	idempotencyRepo domain.IdempotencyRepository
	storageChecker  healthcheck.Checker
	closeFn         func() error
}

// initRuntimeDependencies создаёт репозитории по cfg.StorageDriver.
// Пустой драйвер означает memory.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (runtimeDependencies, error) {
	driver := cfg.StorageDriver
	if driver == "" {
		driver = StorageDriverMemory
	}

	switch driver {
	case StorageDriverMemory:
		logger.Info("using in-memory storage")
		return runtimeDependencies{
			customerRepo:    memory.NewCustomerRepository(),
			orderRepo:       memory.NewServiceOrderRepository(),
			timelineRepo:    memory.NewTimelineRepository(),
			outboxRepo:      memory.NewOutboxRepository(),
			idempotencyRepo: memory.NewIdempotencyRepository(),
			storageChecker: healthcheck.NewSimpleChecker("storage", func() error {
				return nil
			}),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return runtimeDependencies{}, errors.New("postgres dsn is required for postgres storage driver")
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return runtimeDependencies{}, fmt.Errorf("open postgres store: %w", err)
		}

		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return runtimeDependencies{}, fmt.Errorf("apply migrations: %w", err)
			}
		}

		logger.Info("using postgres storage")
		return runtimeDependencies{
			customerRepo:    postgres.NewCustomerRepository(store),
			orderRepo:       postgres.NewServiceOrderRepository(store),
			timelineRepo:    postgres.NewTimelineRepository(store),
			outboxRepo:      postgres.NewOutboxRepository(store),
			idempotencyRepo: postgres.NewIdempotencyRepository(store),
			storageChecker: healthcheck.NewSimpleChecker("storage", func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return store.Ping(pingCtx)
			}),
			closeFn: store.Close,
		}, nil

	default:
		return runtimeDependencies{}, fmt.Errorf("unsupported storage driver: %q", driver)
	}
}
