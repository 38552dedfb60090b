package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/project-selection-backend/config"
	httpapi "github.com/GoSim-25-26J-441/project-selection-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/logging"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/metrics"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/scheduler"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/storage/postgres"
)

const serviceName = "project-selection-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootstrap.SetGinMode(cfg.App.Environment)

	if cfg.Database.Driver == config.StoreDriverPostgres && cfg.Database.AutoMigrate {
		if err := migrate(ctx, &cfg.Database); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var redisPinger httpapi.Pinger
	if rdb != nil {
		defer rdb.Close()
		redisPinger = bootstrap.RedisPinger{Client: rdb}
	}

	stores, err := bootstrap.OpenStores(ctx, &cfg.Database, rdb)
	if err != nil {
		return err
	}
	defer stores.Close()

	identity, err := bootstrap.Identity(ctx, &cfg.Firebase)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	services := bootstrap.NewServices(stores, rdb, cfg.Assignment, logger, metrics.NewPrometheus(reg, ""))

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Logger:         logger.Named("http"),
		Services:       services,
		Identity:       identity,
		DB:             stores.DB,
		Redis:          redisPinger,
		Gatherer:       reg,
		RecomputeRate:  cfg.Assignment.RecomputeRate,
		RecomputeBurst: cfg.Assignment.RecomputeBurst,
	})

	var sched *scheduler.Scheduler
	if cfg.Assignment.Cron != "" {
		sched, err = scheduler.New(cfg.Assignment.Cron, services.Assignments, logger.Named("scheduler"), time.Minute)
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Database.Driver),
			zap.String("auth_mode", cfg.Firebase.AuthMode),
			zap.Bool("redis", rdb != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if sched != nil {
		g.Go(func() error { return sched.Run(gctx) })
	}

	return g.Wait()
}

func migrate(ctx context.Context, cfg *config.DatabaseConfig) error {
	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(cfg), MaxConns: 2})
	if err != nil {
		return err
	}
	defer pool.Close()
	return postgres.Migrate(ctx, pool)
}
