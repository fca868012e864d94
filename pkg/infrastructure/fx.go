package infrastructure

import (
	"context"
	"fmt"
	"os"

	"github.com/coreidentity/iamcore/pkg/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// InfrastructureModule provides all infrastructure layer dependencies:
// config, database, eventstore, in-process dispatcher, unit of work, schema
// loader, and the projection manager's worker supervision.
var InfrastructureModule = fx.Options(
	fx.Provide(
		LoadConfig,
		DatabaseProvider,
		EventStoreProvider,
		EventDispatcherProvider,
		UnitOfWorkProvider,
		LoggerProvider,
		SchemaLoaderProvider,
		ProjectionManagerProvider,
	),
	fx.Invoke(
		registerDatabaseLifecycle,
		registerSchemaLifecycle,
		registerEventDispatcherLifecycle,
		registerProjectionManagerLifecycle,
	),
)

func registerDatabaseLifecycle(lc fx.Lifecycle, db *gorm.DB, logger domain.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				logger.Error("failed to get underlying database connection", "error", err)
				return err
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				logger.Error("failed to ping database", "error", err)
				return err
			}
			logger.Info("database connection established")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}

func registerSchemaLifecycle(lc fx.Lifecycle, loader *SchemaLoader, logger domain.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := loader.Load(); err != nil {
				logger.Error("schema load failed", "error", err)
				return err
			}
			logger.Info("schema loaded")
			return nil
		},
	})
}

func registerEventDispatcherLifecycle(lc fx.Lifecycle, dispatcher domain.EventDispatcher, logger domain.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := dispatcher.Start(); err != nil {
				logger.Error("failed to start event dispatcher", "error", err)
				return err
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if closer, ok := dispatcher.(interface{ Close() error }); ok {
				return closer.Close()
			}
			return nil
		},
	})
}

func registerProjectionManagerLifecycle(lc fx.Lifecycle, manager *ProjectionManager, logger domain.Logger) {
	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			go func() {
				if err := manager.Start(runCtx); err != nil {
					logger.Error("projection manager stopped with error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}

// DatabaseProvider creates a database connection from config.
func DatabaseProvider(config *Config) (*gorm.DB, error) {
	return NewDatabase(config.Database)
}

// SchemaLoaderProvider creates the schema loader over db. Projection and
// read-model packages call Register on this instance during their own
// fx.Provide constructors before OnStart runs Load.
func SchemaLoaderProvider(db *gorm.DB) *SchemaLoader {
	return NewSchemaLoader(db)
}

// EventStoreProvider creates the eventstore from the database connection.
func EventStoreProvider(db *gorm.DB) (domain.EventStore, error) {
	return NewGormEventStore(db)
}

// EventDispatcherProvider creates the in-process event dispatcher.
func EventDispatcherProvider(config *Config) (domain.EventDispatcher, error) {
	return NewWatermillEventDispatcher(nil)
}

// UnitOfWorkProvider creates the unit of work factory dependency. A fresh
// UnitOfWork is built per command since Commit is single-use.
func UnitOfWorkProvider(eventStore domain.EventStore, dispatcher domain.EventDispatcher) domain.UnitOfWorkFactory {
	return NewUnitOfWorkFactory(eventStore, dispatcher)
}

// LoggerProvider creates a logger from config.
func LoggerProvider(config *Config) domain.Logger {
	return NewLogger(config.Logging.Level, config.Logging.Format)
}

// ProjectionManagerProvider creates the projection manager. It is started
// empty; projections register themselves via fx.Invoke in their own
// packages before the OnStart lifecycle hook fires.
func ProjectionManagerProvider(db *gorm.DB, store domain.EventStore, logger domain.Logger, config *Config) *ProjectionManager {
	workerID := fmt.Sprintf("%s-%d", hostname(), os.Getpid())
	manager := NewProjectionManager(db, store, logger, workerID)
	if config.Projection.BatchSize > 0 {
		manager.batchSize = config.Projection.BatchSize
	}
	if config.Projection.PollInterval() > 0 {
		manager.pollInterval = config.Projection.PollInterval()
	}
	if config.Projection.LockTTL() > 0 {
		manager.lockTTL = config.Projection.LockTTL()
	}
	return manager
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
