// Package server boots the storefront: configuration, MongoDB, Redis,
// storage, background workers, and the HTTP stack.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keysncaps/keysncaps/app/jobs"
	"github.com/keysncaps/keysncaps/app/listeners"
	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/app/routes"
	"github.com/keysncaps/keysncaps/app/services"
	"github.com/keysncaps/keysncaps/config"
	"github.com/keysncaps/keysncaps/pkg/cache"
	"github.com/keysncaps/keysncaps/pkg/database"
	"github.com/keysncaps/keysncaps/pkg/logger"
	"github.com/keysncaps/keysncaps/pkg/metrics"
	"github.com/keysncaps/keysncaps/pkg/middleware"
	"github.com/keysncaps/keysncaps/pkg/queue"
	"github.com/keysncaps/keysncaps/pkg/reqid"
	"github.com/keysncaps/keysncaps/pkg/router"
	"github.com/keysncaps/keysncaps/pkg/schedule"
	"github.com/keysncaps/keysncaps/pkg/storage"
	"github.com/keysncaps/keysncaps/pkg/ws"
)

const (
	queueWorkers  = 4
	staleOrderAge = 30 * time.Minute
)

// Start boots every subsystem and serves HTTP until SIGINT/SIGTERM.
// A failed database connection is fatal; the caller should exit 1.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background())

	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, caching disabled", "error", err)
	}
	storage.Connect()

	// Ship logs to Mongo alongside stdout when a sink collection is set.
	if sink := config.MongoLogSink(); sink != "" {
		mh := logger.NewMongoHandler(database.DB(), sink)
		defer mh.Close()
		logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), mh))
	}

	// Repositories and services.
	userRepo := repositories.NewUserRepository()
	productRepo := repositories.NewProductRepository()
	orderRepo := repositories.NewOrderRepository()

	authSvc := services.NewAuthService(userRepo)
	productSvc := services.NewProductService(productRepo)
	orderSvc := services.NewOrderService(orderRepo)
	paymentSvc := services.NewPaymentService(services.NewStripeGateway())

	// Background machinery.
	hub := ws.NewHub()
	go hub.Run()
	listeners.Boot(hub)
	jobs.Boot(productSvc)

	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, queueWorkers)

	registerSchedules(orderSvc, productSvc)
	go schedule.Start(ctx)

	// HTTP stack, outermost middleware first.
	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())))
	r.Use(middleware.RateLimit(200, time.Minute))

	routes.RegisterAPI(r, routes.Deps{
		Users:    userRepo,
		Orders:   orderRepo,
		Auth:     authSvc,
		Products: productSvc,
		Payments: paymentSvc,
		OrderSvc: orderSvc,
		Hub:      hub,
	})

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func registerSchedules(orders *services.OrderService, products *services.ProductService) {
	schedule.Every(10).Minutes().Name("orders.cancel_stale").WithoutOverlapping().Run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := orders.CancelStale(ctx, staleOrderAge); err != nil {
			logger.Error("schedule: stale order sweep failed", "error", err)
		}
	})

	schedule.Every(5).Minutes().Name("catalog.warm_cache").Run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := products.WarmCatalogCache(ctx); err != nil {
			logger.Warn("schedule: catalog cache warmup failed", "error", err)
		}
	})
}
