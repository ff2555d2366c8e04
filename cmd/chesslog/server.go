package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"chesslog/internal/http"
)

func runServer(a *app) error {
	h := http.NewHandler(http.Deps{
		Store:          a.history,
		Catalog:        a.catalog,
		Factory:        a.factory,
		Health:         a.store,
		DownloadPrefix: a.cfg.History.DownloadPrefix,
		Log:            a.log,
	})
	fiberApp := http.NewFiberApp(h, a.cfg.HTTP.Dev)

	addr := a.cfg.HTTP.Addr()
	go func() {
		a.log.Info("history API listening",
			zap.String("addr", "http://"+addr),
			zap.String("games", "http://"+addr+"/api/v1/games"),
			zap.String("health", "http://"+addr+"/health"),
			zap.Bool("dev", a.cfg.HTTP.Dev))
		if err := fiberApp.Listen(addr); err != nil {
			a.log.Error("API server listen error", zap.Error(err))
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(ctx); err != nil {
		a.log.Warn("server forced to shutdown", zap.Error(err))
	}
	a.log.Info("server exited")
	return nil
}
