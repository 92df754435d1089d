package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/bybauk/byba-backend/api/routes"
	"github.com/bybauk/byba-backend/internal/events"
	"github.com/bybauk/byba-backend/internal/eventtypes"
	"github.com/bybauk/byba-backend/internal/fees"
	"github.com/bybauk/byba-backend/internal/organisations"
	"github.com/bybauk/byba-backend/internal/registrations"
	"github.com/bybauk/byba-backend/internal/schedule"
	"github.com/bybauk/byba-backend/internal/seasons"
	"github.com/bybauk/byba-backend/pkg/config"
	"github.com/bybauk/byba-backend/pkg/db"
	"github.com/bybauk/byba-backend/pkg/locks"
	"github.com/bybauk/byba-backend/pkg/logger"
	"github.com/bybauk/byba-backend/pkg/metrics"
	"github.com/bybauk/byba-backend/pkg/migrate"
	"github.com/bybauk/byba-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engineMetrics := metrics.NewEngineMetrics(registry)

	svcs, err := buildServices(cfg, logg, dbClient, redisClient, engineMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, svcs),
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	closeErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		redisClient.Close(),
		dbClient.Close(),
	)
	if closeErr != nil {
		logg.Error(ctx, "error during shutdown", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "shutdown complete")
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	engineMetrics *metrics.EngineMetrics,
) (routes.Services, error) {
	withdrawalMultiplier, err := decimal.NewFromString(cfg.Engine.WithdrawalFeeMultiplier)
	if err != nil {
		return routes.Services{}, err
	}

	feeService, err := fees.NewService(fees.ServiceParams{
		Repo:    fees.NewRepository(dbClient.DB()),
		Logger:  logg,
		Metrics: engineMetrics,
	})
	if err != nil {
		return routes.Services{}, err
	}

	scheduleService, err := schedule.NewService(schedule.ServiceParams{
		Repo:            schedule.NewRepository(dbClient.DB()),
		Runner:          dbClient,
		Locker:          redisClient,
		Logger:          logg,
		Metrics:         engineMetrics,
		LockTTL:         cfg.Engine.ScheduleLockTTL,
		DefaultDuration: cfg.Engine.DefaultPerformanceMinutes,
	})
	if err != nil {
		return routes.Services{}, err
	}

	registrationService, err := registrations.NewService(registrations.ServiceParams{
		Repo:                    registrations.NewRepository(dbClient.DB()),
		Fees:                    feeService,
		Schedule:                scheduleService,
		Runner:                  dbClient,
		Logger:                  logg,
		Metrics:                 engineMetrics,
		Locks:                   locks.NewKeyed(),
		WithdrawalFeeMultiplier: withdrawalMultiplier,
	})
	if err != nil {
		return routes.Services{}, err
	}

	seasonService, err := seasons.NewService(seasons.ServiceParams{
		Repo: seasons.NewRepository(dbClient.DB()),
	})
	if err != nil {
		return routes.Services{}, err
	}

	eventService, err := events.NewService(events.ServiceParams{
		Repo: events.NewRepository(dbClient.DB()),
	})
	if err != nil {
		return routes.Services{}, err
	}

	eventTypeService, err := eventtypes.NewService(eventtypes.ServiceParams{
		Repo:   eventtypes.NewRepository(dbClient.DB()),
		Runner: dbClient,
	})
	if err != nil {
		return routes.Services{}, err
	}

	organisationService, err := organisations.NewService(organisations.ServiceParams{
		Repo: organisations.NewRepository(dbClient.DB()),
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Registrations: registrationService,
		Schedule:      scheduleService,
		Fees:          feeService,
		Seasons:       seasonService,
		Events:        eventService,
		EventTypes:    eventTypeService,
		Organisations: organisationService,
	}, nil
}
