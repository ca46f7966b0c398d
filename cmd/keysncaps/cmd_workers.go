package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/keysncaps/keysncaps/app/jobs"
	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/app/services"
	"github.com/keysncaps/keysncaps/config"
	"github.com/keysncaps/keysncaps/pkg/cache"
	"github.com/keysncaps/keysncaps/pkg/database"
	"github.com/keysncaps/keysncaps/pkg/logger"
	"github.com/keysncaps/keysncaps/pkg/queue"
	"github.com/keysncaps/keysncaps/pkg/schedule"
)

var queueWorkersFlag int

func init() {
	queueWorkCmd.Flags().IntVar(&queueWorkersFlag, "workers", 4, "number of concurrent workers")
}

// bootWorker connects the datastores and wires job dependencies. Queue
// workers need Redis so they share the queue with the web process.
func bootWorker(ctx context.Context) error {
	if err := database.Connect(ctx); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("worker: redis unavailable, using in-memory queue", "error", err)
	}
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	jobs.Boot(services.NewProductService(repositories.NewProductRepository()))
	return nil
}

// keysncaps queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := config.Load(); err != nil {
			return err
		}
		if err := bootWorker(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background())

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 4
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

// keysncaps schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := config.Load(); err != nil {
			return err
		}
		if err := bootWorker(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background())

		orderSvc := services.NewOrderService(repositories.NewOrderRepository())
		productSvc := services.NewProductService(repositories.NewProductRepository())

		schedule.Every(10).Minutes().Name("orders.cancel_stale").WithoutOverlapping().Run(func() {
			c, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := orderSvc.CancelStale(c, 30*time.Minute); err != nil {
				logger.Error("schedule: stale order sweep failed", "error", err)
			}
		})
		schedule.Every(5).Minutes().Name("catalog.warm_cache").Run(func() {
			c, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := productSvc.WarmCatalogCache(c); err != nil {
				logger.Warn("schedule: catalog cache warmup failed", "error", err)
			}
		})

		tasks := schedule.List()
		fmt.Println("Registered scheduled tasks:")
		for _, t := range tasks {
			fmt.Println("  •", t)
		}

		schedule.Start(ctx)
		fmt.Println("\nScheduler stopped.")
		return nil
	},
}
