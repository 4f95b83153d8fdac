package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/voc-backend/config"
	"github.com/GoSim-25-26J-441/voc-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/voc-backend/internal/logger"
)

const (
	serviceName     = "voc-backend"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(logger.Options{
		Level:       cfg.App.LogLevel,
		Development: !cfg.IsProduction(),
		File:        cfg.App.LogFile,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap.SetGinMode(cfg.App.Environment)

	persistence, err := bootstrap.OpenPersistence(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer func() { _ = persistence.Close() }()

	app, err := bootstrap.NewApp(cfg, persistence, lg)
	if err != nil {
		return err
	}

	// the server accepts requests while hydrating; project routes answer
	// 503 until the gate opens
	go func() {
		if _, err := app.Hydrate(ctx); err != nil {
			lg.Error("hydration failed, starting empty", zap.Error(err))
		}
		if reason := app.Service.SavesBlocked(); reason != "" {
			lg.Warn("saving disabled until restart", zap.String("reason", reason))
		}
	}()

	if err := app.Scheduler.Start(cfg.Snapshot.Schedule); err != nil {
		return err
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		Log:            lg.Named("http"),
		Projects:       app.Handler,
		Gate:           app.Gate,
		Redis:          persistence.Redis,
		DB:             persistence.DB,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Warn("http shutdown", zap.Error(err))
	}
	app.Close(shutdownCtx)

	// final save before exit
	if app.Gate.Ready() {
		if err := app.Service.Snapshot(shutdownCtx); err != nil {
			lg.Warn("final snapshot failed", zap.Error(err))
		}
	}
	return nil
}
