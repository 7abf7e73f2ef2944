// cmd/worker runs a background refresh daemon: on an interval, it asks the
// refresh orchestrator to pull every registered source and republish the
// index. Useful standalone when the HTTP server's own refresh endpoint is
// not the only trigger (e.g. a scheduled refresh sidecar).
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/index"
	"github.com/watchlist-screening/sanctions-engine/internal/ingest"
	"github.com/watchlist-screening/sanctions-engine/internal/logging"
	"github.com/watchlist-screening/sanctions-engine/internal/prepare"
	"github.com/watchlist-screening/sanctions-engine/internal/refresh"
)

func main() {
	log := logging.NewFromEnv()
	defer log.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	db, err := ingest.Connect(dbURL)
	if err != nil {
		log.Fatal("failed to connect to staging database", zap.Error(err))
	}
	defer db.Close()

	staging := ingest.NewPostgresStagingStore(db)
	idx := index.New(prepare.Options{})
	orch := refresh.New(idx, staging, log)
	for _, src := range []entity.Source{entity.SourceOFACSDN, entity.SourceUSCSL, entity.SourceEUCSL, entity.SourceUKCSL} {
		orch.Register(ingest.NewStagingSource(src, staging))
	}

	interval := envDuration("REFRESH_INTERVAL_SECONDS", 15*time.Minute)
	log.Info("refresh daemon starting", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	trigger := func() {
		if err := orch.Trigger(context.Background()); err != nil && err != refresh.ErrAlreadyRefreshing {
			log.Warn("refresh trigger failed", zap.Error(err))
		}
	}
	trigger()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			trigger()
		case <-sigChan:
			log.Info("shutting down refresh daemon")
			return
		}
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
