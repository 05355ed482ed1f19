package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/wimpyapp/ordering/internal/app"
	"github.com/wimpyapp/ordering/internal/config"
	"github.com/wimpyapp/ordering/internal/events"
	"github.com/wimpyapp/ordering/internal/httpserver"
	"github.com/wimpyapp/ordering/internal/logging"
	"github.com/wimpyapp/ordering/internal/remote"
	"github.com/wimpyapp/ordering/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "wimpy")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	cancel()
	if err != nil {
		log.Fatalf("store open: %v", err)
	}

	client, err := remote.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("remote client: %v", err)
	}

	pub := events.FromBrokers(cfg.KafkaBrokers)

	a := app.New(app.Deps{API: client, Store: store, Events: pub})

	bootCtx, bootCancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), 30*time.Second)
	if err := a.Bootstrap(bootCtx); err != nil {
		logger.Error("bootstrap_failed", "error", err)
	}
	bootCancel()

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(httpserver.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Shell: &httpserver.ShellHTTP{App: a, ReadyCheck: store.Ping},
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
