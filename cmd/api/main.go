package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"scamshield/internal/api"
	"scamshield/internal/api/handlers"
	"scamshield/internal/config"
	"scamshield/internal/domain/services"
	"scamshield/internal/domain/services/ai"
	"scamshield/internal/infrastructure/cache"
	"scamshield/internal/infrastructure/database"
	"scamshield/internal/infrastructure/database/repository"
	"scamshield/internal/streaming"
	"scamshield/pkg/logger"
)

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting ScamShield")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database is optional; scans degrade to heuristics-only without it.
	var reports *repository.ReportRepository
	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Warn().Err(err).Msg("running without database - community signal disabled")
	} else {
		defer pool.Close()
		reports = repository.NewReportRepository(pool)
		log.Info().Msg("report repository initialized")
	}

	var redisCache *cache.RedisCache
	var scanCache *cache.ScanResultCache
	redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("running without Redis - caching and rate limiting disabled")
		redisCache = nil
	} else {
		defer redisCache.Close()
		scanCache = cache.NewScanResultCache(redisCache, cfg.Cache.ScanTTL)
	}

	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err = streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without distributed events")
			natsPublisher = nil
		}
	}

	eventBus := streaming.NewEventBus(natsPublisher, log)
	wsHub := streaming.NewWebSocketHub(log)
	go wsHub.Run(ctx)

	var classifier services.TextClassifier
	if cfg.Classifier.Enabled && cfg.Classifier.Endpoint != "" {
		classifier = ai.NewClassifier(ai.ClassifierConfig{
			Endpoint: cfg.Classifier.Endpoint,
			APIKey:   cfg.Classifier.APIKey,
			Timeout:  cfg.Classifier.Timeout,
		}, log)
		log.Info().Str("endpoint", cfg.Classifier.Endpoint).Msg("text classifier enabled")
	} else {
		log.Info().Msg("text classifier disabled")
	}

	var store services.ReportStore
	var statsStore services.StatsStore
	if reports != nil {
		store = reports
		statsStore = reports
	}
	var engineCache services.ScanCache
	if scanCache != nil {
		engineCache = scanCache
	}

	engine := services.NewEngine(cfg.Scoring, store, classifier, engineCache, log)
	statsService := services.NewStatsService(statsStore, log)

	deps := handlers.Dependencies{
		Engine:   engine,
		Stats:    statsService,
		Reports:  reports,
		Cache:    redisCache,
		EventBus: eventBus,
		Hub:      wsHub,
		Logger:   log,
	}
	h := handlers.NewHandlers(deps)

	router := api.NewRouter(*cfg, h, redisCache, wsHub, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	eventBus.Close()
	log.Info().Msg("shutdown complete")
}
