package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/brewcast/internal/config"
	"github.com/mamadbah2/brewcast/internal/repository/mongodb"
	"github.com/mamadbah2/brewcast/internal/repository/sheets"
	"github.com/mamadbah2/brewcast/internal/scheduler"
	"github.com/mamadbah2/brewcast/internal/server/handlers"
	"github.com/mamadbah2/brewcast/internal/server/router"
	predictionsvc "github.com/mamadbah2/brewcast/internal/service/prediction"
	reportingsvc "github.com/mamadbah2/brewcast/internal/service/reporting"
	"github.com/mamadbah2/brewcast/internal/yeast"
	whatsappclient "github.com/mamadbah2/brewcast/pkg/clients/whatsapp"
	"github.com/mamadbah2/brewcast/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	profiles, err := loadProfiles(cfg)
	if err != nil {
		baseLogger.Fatal("failed to load yeast profiles", zap.Error(err))
	}
	baseLogger.Info("yeast profiles loaded", zap.Int("count", profiles.Len()), zap.Strings("keys", profiles.Keys()))

	predictionSvc := predictionsvc.NewService(profiles, baseLogger.Named("svc.prediction"))

	predictionHandler := handlers.NewPredictionHandler(predictionSvc, profiles, baseLogger.Named("handlers.prediction"))
	yeastHandler := handlers.NewYeastHandler(profiles)
	engine := router.New(predictionHandler, yeastHandler, baseLogger.Named("router"))

	if cfg.Digest.Enabled() {
		sched, err := newDigestScheduler(cfg, predictionSvc, baseLogger)
		if err != nil {
			baseLogger.Fatal("failed to init digest scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start digest scheduler", zap.Error(err))
		}
		defer sched.Stop()
	} else {
		baseLogger.Info("WATCH_BATCH_FILE not set, fermentation digest disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// loadProfiles builds the yeast table from a YAML file, a MongoDB collection,
// or the built-in defaults, in that order.
func loadProfiles(cfg *config.Config) (*yeast.Table, error) {
	switch {
	case cfg.Profiles.File != "":
		return yeast.LoadFile(cfg.Profiles.File)
	case cfg.MongoDB.Enabled():
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.MongoDB.ProfilesCollection)
		if err != nil {
			return nil, err
		}
		defer func() { _ = repo.Close(context.Background()) }()

		docs, err := repo.ListProfiles(ctx)
		if err != nil {
			return nil, err
		}
		table, err := yeast.NewTable(docs)
		if err != nil {
			return nil, fmt.Errorf("mongodb collection %s: %w", cfg.MongoDB.ProfilesCollection, err)
		}
		return table, nil
	default:
		return yeast.Default(), nil
	}
}

func newDigestScheduler(cfg *config.Config, predictor reportingsvc.Predictor, baseLogger *zap.Logger) (*scheduler.Scheduler, error) {
	watched, err := config.LoadWatchedBatch(cfg.Digest.BatchFile)
	if err != nil {
		return nil, err
	}

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			return nil, err
		}
		sheetsRepo = repo
	}

	reportingSvc := reportingsvc.NewService(*watched, sheetsRepo, cfg.Sheets.ReadingsRange, predictor, baseLogger.Named("svc.reporting"))
	whatsClient := whatsappclient.NewClient(cfg.WhatsApp)

	return scheduler.NewScheduler(cfg.Digest, cfg.WhatsApp.Recipient, reportingSvc, whatsClient, baseLogger.Named("scheduler"))
}
