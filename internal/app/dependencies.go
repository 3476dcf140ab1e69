package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
	"github.com/vladislavdragonenkov/catalog-orders/internal/health"
	"github.com/vladislavdragonenkov/catalog-orders/internal/storage/memory"
	"github.com/vladislavdragonenkov/catalog-orders/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения и функцию их освобождения.
type Dependencies struct {
	Orders    domain.OrderRepository
	Products  domain.ProductRepository
	Companies domain.CompanyRepository
	Outbox    domain.OutboxRepository

	// StorageChecker сообщает о доступности хранилища для readiness-пробы.
	StorageChecker health.Checker

	Logger *log.Entry

	closeFn func() error
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() error {
	if d == nil || d.closeFn == nil {
		return nil
	}
	return d.closeFn()
}

// NewDependencies собирает хранилища согласно конфигурации.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		products := memory.NewProductRepository()
		return &Dependencies{
			Orders:    memory.NewOrderRepository(products),
			Products:  products,
			Companies: memory.NewCompanyRepository(),
			Outbox:    memory.NewOutboxRepository(),
			StorageChecker: health.NewFuncChecker("storage", func() error {
				return nil
			}),
			Logger: logger,
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres storage requires ORDERS_POSTGRES_DSN")
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("postgres migrations applied")
		}

		return &Dependencies{
			Orders:    postgres.NewOrderRepository(store),
			Products:  postgres.NewProductRepository(store),
			Companies: postgres.NewCompanyRepository(store),
			Outbox:    postgres.NewOutboxRepository(store),
			StorageChecker: health.NewFuncChecker("postgres", func() error {
				return store.Ping(context.Background())
			}),
			Logger:  logger,
			closeFn: store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
}
