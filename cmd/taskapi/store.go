package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/appboilerplate/taskmanager/internal/app"
	"github.com/appboilerplate/taskmanager/internal/platform/db"
	platformmongo "github.com/appboilerplate/taskmanager/internal/platform/mongo"
	"github.com/appboilerplate/taskmanager/internal/tasks"
	"github.com/appboilerplate/taskmanager/internal/users"
)

// store bundles the repositories of the configured driver.
type store struct {
	users users.Repository
	tasks tasks.Repository
	ping  app.HealthCheck
	close func()
}

func openStore(ctx context.Context, cfg *app.Config, logger *slog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case app.StorePostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return openMongo(ctx, cfg, logger)
	}
}

func openMongo(ctx context.Context, cfg *app.Config, logger *slog.Logger) (*store, error) {
	client, database, err := platformmongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	disconnect := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect", slog.Any("error", err))
		}
	}

	userRepo := users.NewMongoRepository(database)
	taskRepo := tasks.NewMongoRepository(database)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		disconnect()
		return nil, err
	}
	if err := taskRepo.EnsureIndexes(ctx); err != nil {
		disconnect()
		return nil, err
	}
	return &store{
		users: userRepo,
		tasks: taskRepo,
		ping:  func(ctx context.Context) error { return platformmongo.Ping(ctx, client) },
		close: disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg *app.Config, logger *slog.Logger) (*store, error) {
	pool, err := db.New(ctx, cfg.PGDSN, db.Options{})
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("postgres migrations applied")
	return &store{
		users: users.NewPostgresRepository(pool),
		tasks: tasks.NewPostgresRepository(pool),
		ping:  pool.Ping,
		close: pool.Close,
	}, nil
}
