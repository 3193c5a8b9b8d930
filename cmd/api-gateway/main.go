package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/helpdesk-presence-api/api/swagger"
	"github.com/noah-isme/helpdesk-presence-api/internal/handler"
	"github.com/noah-isme/helpdesk-presence-api/internal/repository"
	"github.com/noah-isme/helpdesk-presence-api/internal/router"
	"github.com/noah-isme/helpdesk-presence-api/internal/service"
	"github.com/noah-isme/helpdesk-presence-api/internal/worker"
	"github.com/noah-isme/helpdesk-presence-api/pkg/cache"
	"github.com/noah-isme/helpdesk-presence-api/pkg/config"
	"github.com/noah-isme/helpdesk-presence-api/pkg/database"
	"github.com/noah-isme/helpdesk-presence-api/pkg/export"
	"github.com/noah-isme/helpdesk-presence-api/pkg/logger"
	"github.com/noah-isme/helpdesk-presence-api/pkg/validation"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	loc, err := time.LoadLocation(cfg.Presence.DefaultTimezone)
	if err != nil {
		logr.Fatal("invalid default timezone", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	validate := validation.MustNew()

	statusRepo := repository.NewStatusTypeRepository(db)
	officeRepo := repository.NewOfficeLocationRepository(db)
	segmentRepo := repository.NewPresenceSegmentRepository(db)

	registry, closeCache := buildRegistry(ctx, cfg, statusRepo, officeRepo, metrics, logr)
	defer closeCache()

	planner := service.NewDayPlanningService(registry, statusRepo, officeRepo, segmentRepo, db, validate, metrics, logr, service.PlanningConfig{
		DailyCapMinutes: cfg.Presence.DailyCapMinutes,
		MaxRangeDays:    cfg.Presence.MaxRangeDays,
		DefaultLocation: loc,
	})
	query := service.NewPresenceQueryService(segmentRepo, loc, metrics, logr)
	exporter := service.NewPresenceExportService(query, export.NewCSVExporter(), export.NewPDFExporter(), export.NewICSExporter(""))
	catalog := service.NewCatalogService(statusRepo, officeRepo, registry, validate, logr)
	tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.Expiration})

	if _, err := registry.Refresh(ctx); err != nil {
		logr.Warn("initial registry load failed", zap.Error(err))
	}

	var snapshot *worker.PresenceSnapshotWorker
	if cfg.Worker.Enabled {
		snapshot = worker.NewPresenceSnapshotWorker(registry, query, metrics, logr)
		if err := snapshot.Start(cfg.Worker.PresenceSnapshotCron); err != nil {
			logr.Fatal("failed to start presence worker", zap.Error(err))
		}
	}

	engine := router.New(router.Config{
		Env:           cfg.Env,
		APIPrefix:     cfg.APIPrefix,
		CORS:          cfg.CORS,
		Logger:        logr,
		Metrics:       metrics,
		Tokens:        tokens,
		Presence:      handler.NewPresenceHandler(planner, query, exporter, catalog),
		Catalog:       handler.NewCatalogHandler(catalog),
		Observability: handler.NewMetricsHandler(metrics, db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(logr)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if snapshot != nil {
		snapshot.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// buildRegistry wires the in-process registry, optionally on top of the
// shared Redis tier. The returned func releases the Redis client.
func buildRegistry(ctx context.Context, cfg *config.Config, statuses *repository.StatusTypeRepository, offices *repository.OfficeLocationRepository, metrics *service.MetricsService, logr *zap.Logger) (*service.RegistryCache, func()) {
	var loader service.CatalogLoader = service.NewRepositoryCatalogLoader(statuses, offices)
	opts := []service.RegistryOption{
		service.WithRegistryMetrics(metrics),
		service.WithRegistryLogger(logr),
	}
	closeFn := func() {}

	if cfg.Registry.SharedCacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("shared registry cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Registry.SharedCacheTTL, logr, true)
			shared := service.NewSharedCatalogLoader(cacheSvc, loader, cfg.Registry.SharedCacheTTL)
			loader = shared
			opts = append(opts, service.WithRegistryInvalidator(shared.Invalidate))
			closeFn = func() { _ = cacheRepo.Close() }
		}
	}

	return service.NewRegistryCache(loader, cfg.Registry.TTL, opts...), closeFn
}

func waitForShutdown(logr *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logr.Info("shutting down", zap.String("signal", sig.String()))
}
