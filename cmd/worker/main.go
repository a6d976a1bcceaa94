package main

import (
	"context"
	"errors"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/reeltracker/worker/internal/config"
	"github.com/reeltracker/worker/internal/job"
	"github.com/reeltracker/worker/internal/model"
	"github.com/reeltracker/worker/internal/pkg/consts"
	"github.com/reeltracker/worker/internal/pkg/cron"
	"github.com/reeltracker/worker/internal/pkg/logger"
	"github.com/reeltracker/worker/internal/wire"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Error("fatal error: failed to load configuration", "err", err)
		panic(err)
	}

	logger.InitLogger()

	if err := os.MkdirAll(cfg.AudioDir, 0o755); err != nil {
		log.Error("fatal error: failed to prepare audio directory", "err", err)
		panic(err)
	}

	app, err := wire.BuildWorkerApplication(cfg)
	if err != nil {
		log.Error("fatal error: failed to build worker application", "err", err)
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Startup reaper recovers leases orphaned by a prior crash before
	// the scheduler starts claiming new ones.
	job.ReapStaleLeases(ctx, app.Schedules)

	if err := app.Heartbeats.UpsertHeartbeat(ctx, consts.HeartbeatWorkerName, os.Getpid(), model.HeartbeatStatusRunning); err != nil {
		log.Error("fatal error: failed to send initial heartbeat", "err", err)
		panic(err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if err := cron.InitCron(app.CronMgr); err != nil {
		log.Error("fatal error: failed to start scheduler", "err", err)
		panic(err)
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-quit:
			log.Info("received signal, shutting down", "signal", sig)
			cancel()
		}
		return nil
	})

	<-ctx.Done()

	log.Info("scheduler stopping")
	app.CronMgr.Stop()

	shutdownCtx := context.Background()
	if err := app.Heartbeats.UpsertHeartbeat(shutdownCtx, consts.HeartbeatWorkerName, os.Getpid(), model.HeartbeatStatusStopped); err != nil {
		log.Error("failed to record stopped heartbeat", "err", err)
	}
	app.Producer.Close()

	if sqlDB, err := app.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("worker exited with error", "err", err)
		os.Exit(1)
	}
	log.Info("worker exited successfully")
}
