package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ayo6706/circulation-scheduler/internal/api"
	"github.com/ayo6706/circulation-scheduler/internal/api/handler"
	"github.com/ayo6706/circulation-scheduler/internal/circulation"
	"github.com/ayo6706/circulation-scheduler/internal/config"
	"github.com/ayo6706/circulation-scheduler/internal/db"
	"github.com/ayo6706/circulation-scheduler/internal/idempotency"
	"github.com/ayo6706/circulation-scheduler/internal/observability"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
	"github.com/ayo6706/circulation-scheduler/internal/service"
	"github.com/ayo6706/circulation-scheduler/internal/worker"
)

// Run bootstraps the HTTP server and background workers, blocking until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := newRedisClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	store := repository.NewStore(redisClient, cfg.RedisKeyPrefix, cfg.HistoryLimit)
	idemStore := idempotency.NewStore(redisClient, cfg.RedisKeyPrefix, cfg.IdempotencyTTL)

	var (
		archive  service.HistoryArchive
		dbPinger handler.Pinger
	)
	pool, err := db.ConnectOptional(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if pool != nil {
		defer pool.Close()
		historyArchive := repository.NewHistoryArchive(pool)
		if err := historyArchive.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("prepare history archive: %w", err)
		}
		archive = historyArchive
		dbPinger = pool
		logger.Info("history archive enabled")
	}

	rnd := circulation.NewTimeSeededRand()
	if cfg.RandomSeed != 0 {
		rnd = circulation.NewRand(cfg.RandomSeed)
		logger.Info("using fixed random seed", zap.Uint64("seed", cfg.RandomSeed))
	}

	simulationSvc := service.NewSimulationService(store, archive, rnd)
	reconciliationSvc := service.NewReconciliationService(store)

	autoWorker := worker.NewAutoExecutionWorker(simulationSvc).WithPollInterval(cfg.AutoExecutionPollInterval)
	stopAuto := autoWorker.Run(ctx)
	reconciliationWorker := worker.NewReconciliationWorker(reconciliationSvc).WithInterval(cfg.ReconciliationInterval)
	stopReconciliation := reconciliationWorker.Run(ctx)

	router := api.NewRouter(api.RouterConfig{
		Services: api.Services{
			Accounts:    service.NewAccountService(store),
			Groups:      service.NewGroupService(store),
			Simulations: simulationSvc,
			Transfers:   service.NewTransferService(store),
			Audit:       service.NewAuditService(store),
			History:     service.NewHistoryService(store, archive),
		},
		Health:        handler.NewHealthHandler(store, dbPinger),
		Idempotency:   idemStore,
		Logger:        logger,
		PublicRPS:     cfg.PublicRateLimitRPS,
		RunsPerMinute: cfg.RunRateLimitPerMinute,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("stopping workers")
	stopAuto()
	stopReconciliation()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = lvl
	return cfg.Build()
}

func newRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
