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
	"golang.org/x/time/rate"

	"meeting-room-backend/config"
	"meeting-room-backend/internal/api"
	"meeting-room-backend/internal/booking"
	"meeting-room-backend/internal/db"
	"meeting-room-backend/internal/logger"
	"meeting-room-backend/internal/parse"
	"meeting-room-backend/internal/store"
)

func main() {
	// Load configuration; an unset CONFIG_PATH means defaults plus env.
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %q: %v\n", configPath, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "roomd")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	log.Info("configuration loaded", zap.String("path", configPath), zap.String("store_driver", cfg.Store.Driver))

	appStore, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize store", zap.Error(err))
	}
	defer closeStore()

	svc := booking.NewService(appStore, booking.Options{
		Vocabulary: parse.TagVocabulary{
			ExclusiveProvincial: cfg.Levels.ExclusiveProvincialTag,
			CompatibleMarker:    cfg.Levels.CompatibleMarker,
		},
		Concurrency: cfg.Availability.Concurrency,
		RecentLimit: cfg.Reserve.RecentLimitOrDefault(),
		Logger:      log.Named("booking"),
	})

	router := api.NewRouter(svc, api.RouterOptions{
		RateLimit: rate.Limit(cfg.Server.RateLimitPerSec),
		Burst:     cfg.Server.RateLimitBurst,
		CacheTTL:  cfg.Server.CacheTTL,
		Logger:    log.Named("http"),
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	log.Info("shutdown signal received, stopping server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server Shutdown", zap.Error(err))
		return
	}

	log.Info("server gracefully stopped")
}

// openStore builds the backing store selected by store.driver.
func openStore(cfg *config.Config, log *zap.Logger) (store.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgREST:
		log.Info("using PostgREST store", zap.String("base_url", cfg.Store.BaseURL))
		return store.NewPostgREST(cfg.Store.BaseURL, cfg.Store.Timeout, log.Named("store")), func() {}, nil
	default:
		gormDB, err := db.Open(&cfg.Store, log.Named("db"))
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, err
		}
		log.Info("using SQL store", zap.String("driver", cfg.Store.Driver))
		return store.NewSQLStore(gormDB), func() { _ = sqlDB.Close() }, nil
	}
}
