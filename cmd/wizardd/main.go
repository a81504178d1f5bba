// cmd/wizardd/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/wizard/internal/cache"
	"github.com/jason-s-yu/wizard/internal/config"
	"github.com/jason-s-yu/wizard/internal/database"
	"github.com/jason-s-yu/wizard/internal/server"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var snapshots *cache.SnapshotStore
	if cfg.RedisAddr != "" {
		snapshots = cache.New(cfg.RedisAddr, cfg.SnapshotTTL)
		if err := snapshots.Ping(ctx); err != nil {
			log.WithError(err).Fatal("failed to reach redis")
		}
		defer snapshots.Close()
		log.WithField("addr", cfg.RedisAddr).Info("snapshot cache enabled")
	}

	var db *database.Store
	if cfg.PostgresDSN != "" {
		db, err = database.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to postgres")
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			log.WithError(err).Fatal("failed to migrate schema")
		}
		log.Info("result archive enabled")
	}

	srv := server.New(cfg, log, snapshots, db)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Routes(),
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
