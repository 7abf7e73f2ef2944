package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/watchlist-screening/sanctions-engine/internal/batch"
	"github.com/watchlist-screening/sanctions-engine/internal/config"
	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/httpapi"
	"github.com/watchlist-screening/sanctions-engine/internal/index"
	"github.com/watchlist-screening/sanctions-engine/internal/ingest"
	"github.com/watchlist-screening/sanctions-engine/internal/logging"
	"github.com/watchlist-screening/sanctions-engine/internal/prepare"
	"github.com/watchlist-screening/sanctions-engine/internal/refresh"
	"github.com/watchlist-screening/sanctions-engine/internal/scoring"
	"github.com/watchlist-screening/sanctions-engine/internal/search"
	"github.com/watchlist-screening/sanctions-engine/internal/trace"
)

func main() {
	log := logging.NewFromEnv()
	defer log.Sync()

	cfg := config.FromEnv()
	cfgStore, err := config.NewStore(cfg, log)
	if err != nil {
		log.Fatal("invalid starting config", zap.Error(err))
	}
	if path := os.Getenv("SCREENING_CONFIG_FILE"); path != "" {
		stop, err := cfgStore.WatchFile(path)
		if err != nil {
			log.Warn("failed to watch config file, continuing with static config", zap.String("path", path), zap.Error(err))
		} else {
			defer stop()
		}
	}

	idx := index.New(prepare.Options{KeepStopwords: cfg.Similarity.KeepStopwords})
	scorer := scoring.New(cfgStore)
	searchSvc := search.New(idx, scorer)
	executor := batch.New(searchSvc, envInt("SCREENING_BATCH_POOL_SIZE", batch.DefaultPoolSize))
	asyncExecutor := batch.NewAsync(executor)
	traceStore := trace.NewStore()

	var staging *ingest.PostgresStagingStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := ingest.Connect(dbURL)
		if err != nil {
			log.Warn("failed to connect staging store, continuing without crash-recovery seeding", zap.Error(err))
		} else {
			defer db.Close()
			staging = ingest.NewPostgresStagingStore(db)
		}
	}

	refreshOrch := refresh.New(idx, staging, log)
	if staging != nil {
		for _, src := range []entity.Source{entity.SourceOFACSDN, entity.SourceUSCSL, entity.SourceEUCSL, entity.SourceUKCSL} {
			refreshOrch.Register(ingest.NewStagingSource(src, staging))
		}
		if err := refreshOrch.SeedFromStaging(context.Background()); err != nil {
			log.Warn("failed to seed index from staging store", zap.Error(err))
		}
	}

	h := &httpapi.Handlers{
		Search:  searchSvc,
		Executor: executor,
		Async:    asyncExecutor,
		Index:    idx,
		Config:   cfgStore,
		Refresh:  refreshOrch,
		Traces:   traceStore,
		Log:      log,
		SupportedSources: []entity.Source{entity.SourceOFACSDN, entity.SourceUSCSL, entity.SourceEUCSL, entity.SourceUKCSL},
		SupportedTypes:   []entity.Type{entity.TypePerson, entity.TypeBusiness, entity.TypeOrganization, entity.TypeVessel, entity.TypeAircraft},
	}

	e := httpapi.NewRouter(h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()
	log.Info("screening engine started", zap.String("port", port))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info("shutting down")
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int(r-'0')
	}
	return n
}
