package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/justinas/alice"
	"github.com/seleradigital/merchant-admin-api/infrastructure/repository"
	"github.com/seleradigital/merchant-admin-api/internal/api/handler"
	"github.com/seleradigital/merchant-admin-api/internal/api/handler/router"
	"github.com/seleradigital/merchant-admin-api/internal/config"
	"github.com/seleradigital/merchant-admin-api/internal/scheduler"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/analyzing"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/authenticating"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/catalog"
	"github.com/seleradigital/merchant-admin-api/internal/usecases/ordering"
	"github.com/seleradigital/merchant-admin-api/pkg/middleware"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	analyticsService analyzing.ChartAnalyzer,
	catalogService catalog.Cataloger,
	orderService ordering.Orderer,
	authenticator authenticating.Authenticator,
	merchantRepo repository.MerchantRepository,
	resetTokenCleanupService *scheduler.ResetTokenCleanupService,
	analyticsWarmupService *scheduler.AnalyticsWarmupService,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		ResetTokenCleanupService: resetTokenCleanupService,
		AnalyticsWarmupService:   analyticsWarmupService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.User(authenticator)...),
		router.WithRoutes(handler.UserMerchants(authenticator)...),
		router.WithRoutes(handler.Merchants(merchantRepo)...),
		router.WithRoutes(handler.Categories(catalogService)...),
		router.WithRoutes(handler.MenuItems(catalogService)...),
		router.WithRoutes(handler.Orders(orderService)...),
		router.WithRoutes(handler.Analytics(analyticsService)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(authenticator),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Error while running the server")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Interrupt signal received")
	case <-ctx.Done():
		logrus.Info("Application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Starting graceful shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Error during server shutdown")
		return err
	}

	logrus.Info("Server stopped")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("HTTP server stopped")
	return nil
}
