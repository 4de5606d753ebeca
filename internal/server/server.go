// Package server boots the application: config, MongoDB, Redis, log sink,
// route table, HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storefront/backend/app/controllers"
	"github.com/storefront/backend/app/notifications"
	"github.com/storefront/backend/app/repositories"
	"github.com/storefront/backend/app/routes"
	"github.com/storefront/backend/app/services"
	"github.com/storefront/backend/config"
	"github.com/storefront/backend/pkg/cache"
	"github.com/storefront/backend/pkg/database"
	"github.com/storefront/backend/pkg/logger"
	"github.com/storefront/backend/pkg/metrics"
	"github.com/storefront/backend/pkg/middleware"
	"github.com/storefront/backend/pkg/reqid"
	"github.com/storefront/backend/pkg/router"
	"github.com/storefront/backend/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// Build assembles the full router with all dependencies wired. Split from
// Run so commands like route:list can inspect the table without starting
// anything.
func Build() (*router.Router, error) {
	disk, err := storage.Default()
	if err != nil {
		return nil, err
	}

	users := repositories.NewUserRepository()
	products := repositories.NewProductRepository()
	carts := repositories.NewCartRepository()
	orders := repositories.NewOrderRepository()
	reviews := repositories.NewReviewRepository()
	notifier := notifications.NewEmailNotifier()

	authSvc := services.NewAuthService(users, notifier)
	productSvc := services.NewProductService(products)
	cartSvc := services.NewCartService(carts, products)
	orderSvc := services.NewOrderService(orders, carts, products, users, notifier)
	reviewSvc := services.NewReviewService(reviews, products)
	uploadSvc := services.NewUploadService(disk)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	routes.Register(r, routes.Controllers{
		Auth:    controllers.NewAuthController(authSvc),
		Product: controllers.NewProductController(productSvc, uploadSvc),
		Cart:    controllers.NewCartController(cartSvc),
		Order:   controllers.NewOrderController(orderSvc),
		Review:  controllers.NewReviewController(reviewSvc),
		Upload:  controllers.NewUploadController(uploadSvc),
	})
	return r, nil
}

// Run connects the backing services, starts the HTTP server, and blocks
// until SIGINT/SIGTERM, then drains in-flight requests.
func Run() error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Disconnect(ctx); err != nil {
			logger.L.Warn("mongo disconnect failed", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err := database.EnsureIndexes(ctx)
	cancel()
	if err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		// The cache is an accelerator, not a dependency.
		logger.L.Warn("redis unavailable, caching disabled", "error", err)
	}

	sink := logger.NewMongoSink(database.Collection(database.ColLogs))
	logger.UseHandler(sink)
	defer sink.Close()

	r, err := Build()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.L.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
