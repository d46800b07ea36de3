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

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/appboilerplate/taskmanager/internal/app"
	"github.com/appboilerplate/taskmanager/internal/auth"
	"github.com/appboilerplate/taskmanager/internal/i18n"
	"github.com/appboilerplate/taskmanager/internal/mail"
	"github.com/appboilerplate/taskmanager/internal/observability"
	"github.com/appboilerplate/taskmanager/internal/platform/redisconn"
	"github.com/appboilerplate/taskmanager/internal/tasks"
	"github.com/appboilerplate/taskmanager/internal/users"
	"github.com/appboilerplate/taskmanager/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	bundle, err := i18n.New(cfg.AppLanguage)
	if err != nil {
		logger.Error("load translations", slog.Any("error", err))
		os.Exit(1)
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store", slog.String("driver", cfg.StoreDriver), slog.Any("error", err))
		os.Exit(1)
	}
	defer st.close()

	redisClient, err := redisconn.New(ctx, cfg.RedisAddr)
	if err != nil {
		// welcome emails fail until Redis is back; /healthz reports it
		logger.Warn("redis ping", slog.Any("error", err))
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	queue := jobs.NewClient(redisconn.AsynqOpt(cfg.RedisAddr))
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()

	renderer, err := mail.NewRenderer()
	if err != nil {
		logger.Error("parse email templates", slog.Any("error", err))
		os.Exit(1)
	}
	welcome := mail.NewWelcomeMailer(renderer, queue, bundle, cfg.MailGlobals())

	metrics := observability.NewMetrics()

	taskService := tasks.NewService(st.tasks)
	authService := auth.NewService(st.users, auth.NewTokenSigner(cfg.JWTSecret, cfg.TokenTTL), auth.ServiceConfig{
		Logger: logger,
		Owned:  []auth.OwnedResources{taskService},
		Events: metrics,
	})
	userService := users.NewService(st.users, authService, welcome, logger)

	inspector := asynq.NewInspector(redisconn.AsynqOpt(cfg.RedisAddr))
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:      logger,
		Config:      cfg,
		Bundle:      bundle,
		Metrics:     metrics,
		AuthHandler: auth.NewHandler(logger, authService, bundle),
		AuthMiddleware: auth.Middleware{
			Service: authService,
			Strings: bundle.Domain("user"),
			Logger:  logger,
		},
		UsersHandler: users.NewHandler(logger, userService, bundle),
		TasksHandler: tasks.NewHandler(logger, taskService, bundle),
		JobHandler:   jobs.NewHandler(inspector, logger),
		Health: map[string]app.HealthCheck{
			"store": st.ping,
			"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if cfg.WorkerEmbedded {
		worker, err := app.NewEmailWorker(cfg, logger, metrics)
		if err != nil {
			logger.Error("init worker", slog.Any("error", err))
			os.Exit(1)
		}
		g.Go(func() error {
			logger.Info("starting embedded worker")
			if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
