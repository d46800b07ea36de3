// Command worker delivers queued emails and offers queue maintenance
// subcommands.
//
//	worker                                  run the email worker
//	worker stats                            print default queue counters
//	worker send-test-email -to a@x.com      enqueue a welcome email
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/appboilerplate/taskmanager/cmd/worker/cli"
	"github.com/appboilerplate/taskmanager/internal/app"
	"github.com/appboilerplate/taskmanager/internal/i18n"
	"github.com/appboilerplate/taskmanager/internal/mail"
	"github.com/appboilerplate/taskmanager/internal/platform/redisconn"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "run":
		err = run(ctx, cfg, logger)
	case "stats":
		err = stats(ctx, cfg)
	case "send-test-email":
		err = sendTestEmail(ctx, cfg, args)
	default:
		err = fmt.Errorf("unknown command %q (want run, stats or send-test-email)", cmd)
	}
	if err != nil {
		logger.Error(cmd, slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	if client, err := redisconn.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	} else {
		_ = client.Close()
	}

	// no /metrics endpoint here, so job metrics are not collected
	worker, err := app.NewEmailWorker(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("init worker: %w", err)
	}
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker run: %w", err)
	}
	return nil
}

func stats(ctx context.Context, cfg *app.Config) error {
	jobsCLI := cli.NewJobsCLI(redisconn.AsynqOpt(cfg.RedisAddr))
	defer jobsCLI.Close()

	s, err := jobsCLI.InspectQueue(ctx)
	if err != nil {
		return err
	}
	s.Print(os.Stdout)
	return nil
}

func sendTestEmail(ctx context.Context, cfg *app.Config, args []string) error {
	fs := flag.NewFlagSet("send-test-email", flag.ContinueOnError)
	to := fs.String("to", "", "recipient address")
	name := fs.String("name", "there", "recipient name used in the greeting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *to == "" {
		return errors.New("-to is required")
	}

	bundle, err := i18n.New(cfg.AppLanguage)
	if err != nil {
		return err
	}
	renderer, err := mail.NewRenderer()
	if err != nil {
		return err
	}

	jobsCLI := cli.NewJobsCLI(redisconn.AsynqOpt(cfg.RedisAddr))
	defer jobsCLI.Close()

	welcome := mail.NewWelcomeMailer(renderer, jobsCLI, bundle, cfg.MailGlobals())
	if err := welcome.SendWelcome(ctx, *name, *to); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "welcome email queued for %s\n", *to)
	return nil
}
