// Command provision creates the missing Customer of every principal that has
// an email, for users loaded in bulk around the application. It runs once, or
// repeatedly on a cron schedule.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron"
	"github.com/spf13/pflag"

	config "github.com/Keoroanthony/go-storefront/configs"
	"github.com/Keoroanthony/go-storefront/internal/customers"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/pkg/sigctx"
)

const sweepTimeout = 5 * time.Minute

func main() {
	flags := pflag.NewFlagSet("provision", pflag.ExitOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	schedule := flags.String("schedule", "", `cron spec such as "@midnight"; empty runs once`)
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(log)

	if err := db.Init(cfg.Database); err != nil {
		log.Error("failed to init database", "err", err)
		os.Exit(1)
	}

	ctx, stop := sigctx.NotifyContext()
	defer stop()

	if *schedule == "" {
		if err := sweep(ctx); err != nil {
			os.Exit(1)
		}
		return
	}

	c := cron.New()
	if err := c.AddFunc(*schedule, func() { _ = sweep(ctx) }); err != nil {
		log.Error("invalid schedule", "schedule", *schedule, "err", err)
		os.Exit(2)
	}
	c.Start()
	log.Info("provisioning scheduled", "schedule", *schedule)

	<-ctx.Done()
	c.Stop()
	log.Info("provisioning stopped")
}

func sweep(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	n, err := customers.Sweep(ctx, db.DB)
	if err != nil {
		slog.Error("sweep failed", "err", err)
		return err
	}
	slog.Info("sweep done", "created", n)
	return nil
}
