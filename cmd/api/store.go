package main

import (
	"context"
	"fmt"

	"github.com/go-notification-api/internal/application/notification"
	"github.com/go-notification-api/internal/config"
	"github.com/go-notification-api/internal/infrastructure/cache"
	"github.com/go-notification-api/internal/infrastructure/dynamo"
	"github.com/go-notification-api/internal/infrastructure/memory"
	"github.com/go-notification-api/internal/infrastructure/postgres"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// store is a repository that can also be pinged by the readiness check.
type store interface {
	notification.Repository
	notification.Pinger
}

// openStore builds the repository selected by storage.driver and, when
// enabled, puts the Redis cache in front of it. The returned func releases
// whatever connections were opened.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store, func(), error) {
	var (
		repo    store
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Storage.Driver {
	case config.DriverDynamo:
		client, err := dynamo.NewClient(ctx, cfg.AWS)
		if err != nil {
			return nil, nil, err
		}
		if err := dynamo.Bootstrap(ctx, client, cfg.Dynamo.NotificationsTable, log); err != nil {
			return nil, nil, fmt.Errorf("bootstrap dynamodb: %w", err)
		}
		repo = dynamo.NewNotificationRepo(client, cfg.Dynamo.NotificationsTable)
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			closeAll()
			return nil, nil, err
		}
		repo = postgres.NewNotificationRepo(pool)
	case config.DriverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		repo = memory.NewNotificationRepo()
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	log.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, reads go to the store until it recovers", zap.Error(err))
		}
		repo = cache.NewNotificationRepo(repo, rdb, cfg.Redis.TTL, log.Named("cache"))
		log.Info("redis cache enabled", zap.String("address", cfg.Redis.Address), zap.Duration("ttl", cfg.Redis.TTL))
	}

	return repo, closeAll, nil
}
