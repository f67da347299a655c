package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	config "github.com/Keoroanthony/go-storefront/configs"
	"github.com/Keoroanthony/go-storefront/internal/auth"
	"github.com/Keoroanthony/go-storefront/internal/customers"
	"github.com/Keoroanthony/go-storefront/internal/db"
	"github.com/Keoroanthony/go-storefront/internal/events"
	"github.com/Keoroanthony/go-storefront/internal/handlers"
	"github.com/Keoroanthony/go-storefront/internal/notifier"
	"github.com/Keoroanthony/go-storefront/pkg/sigctx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(2)
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(log)
	log.Info("starting storefront", "config", cfg.String())

	ctx, stop := sigctx.NotifyContext()
	defer stop()

	if err := db.Init(cfg.Database); err != nil {
		log.Error("failed to init database", "err", err)
		os.Exit(1)
	}

	bus := events.NewBus()
	events.SetDefault(bus)
	customers.Register(bus)
	waitNotifications := notifier.Subscribe(bus, log, notifiers(ctx, cfg, log)...)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestLogger(log))
	r.SetHTMLTemplate(handlers.Templates())

	// ── session store ──
	r.Use(sessions.Sessions(cfg.Session.Name, auth.NewSessionStore(cfg.Session, db.DB, true)))

	shop := handlers.NewShop(cfg.Catalog.PageSize, cfg.Session, bus)

	if cfg.OIDC.Enabled() {
		o, err := auth.NewOIDC(ctx, cfg.OIDC, cfg.Session, db.DB, bus)
		if err != nil {
			log.Error("failed to init OIDC", "err", err)
			os.Exit(1)
		}
		r.GET("/auth/oidc/login", o.Login)
		r.GET("/auth/oidc/callback", o.Callback)
		shop.OIDC = true
	}

	shop.Routes(r)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		defer stop()
		log.Info("http server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("unexpected server shutdown", "err", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("closing http server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	waitNotifications()
	log.Info("storefront stopped")
}

// notifiers builds the configured order notifiers. A notifier that fails to
// initialise is skipped, orders work without them.
func notifiers(ctx context.Context, cfg config.Config, log *slog.Logger) []notifier.Notifier {
	var ns []notifier.Notifier

	if cfg.Email.Enabled() {
		email, err := notifier.NewEmail(ctx, cfg.Email)
		if err != nil {
			log.Error("email notifications disabled", "err", err)
		} else {
			ns = append(ns, email)
		}
	}

	if cfg.SMS.Enabled() {
		ns = append(ns, notifier.NewSMS(cfg.SMS, &http.Client{Timeout: 10 * time.Second}))
	}

	return ns
}
