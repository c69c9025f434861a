package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/seleradigital/merchant-admin-api/infrastructure/cache"
	"github.com/seleradigital/merchant-admin-api/infrastructure/database/postgres"
	"github.com/seleradigital/merchant-admin-api/infrastructure/repository"
	"github.com/seleradigital/merchant-admin-api/internal/api"
	"github.com/seleradigital/merchant-admin-api/internal/config"
	"github.com/seleradigital/merchant-admin-api/internal/scheduler"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/analyzing"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/authenticating"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/catalog"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/ordering"
	"github.com/sirupsen/logrus"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level: %s, falling back to 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Log level set to: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	merchantRepo := repository.NewMerchantRepository(pgConn)
	orderRepo := repository.NewOrderRepository(pgConn)
	customerRepo := repository.NewCustomerRepository(pgConn)
	categoryRepo := repository.NewCategoryRepository(pgConn)
	menuItemRepo := repository.NewMenuItemRepository(pgConn)
	resetRepo := repository.NewPasswordResetRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, merchantRepo, resetRepo, cfg)
	catalogService := catalog.NewService(categoryRepo, menuItemRepo, merchantRepo)
	orderService := ordering.NewService(orderRepo)

	analyticsService := analyzing.NewService(orderRepo, customerRepo)

	// The chart cache is optional. Without Redis every request recomputes
	// the aggregations.
	if cfg.Redis.Enabled {
		chartCache, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer chartCache.Close()

		analyticsService = analyticsService.WithCache(
			chartCache,
			time.Duration(cfg.ChartCache.TTLSeconds)*time.Second,
		)
		logrus.Info("Chart cache enabled")
	}

	resetTokenCleanupService := scheduler.NewResetTokenCleanupService(resetRepo, cfg)
	analyticsWarmupService := scheduler.NewAnalyticsWarmupService(analyticsService, cfg)

	if err := resetTokenCleanupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start reset token cleanup scheduler")
	} else {
		logrus.Info("Reset token cleanup scheduler started")
	}

	if err := analyticsWarmupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start analytics warmup scheduler")
	} else {
		logrus.Info("Analytics warmup scheduler started")
	}

	server, err := api.New(
		cfg,
		analyticsService,
		catalogService,
		orderService,
		authenticator,
		merchantRepo,
		resetTokenCleanupService,
		analyticsWarmupService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to ping PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
