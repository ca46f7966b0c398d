// Package jobs defines the application's queued background jobs.
package jobs

import (
	"context"
	"time"

	"github.com/keysncaps/keysncaps/app/services"
	"github.com/keysncaps/keysncaps/pkg/logger"
	"github.com/keysncaps/keysncaps/pkg/queue"
)

// LowStockScan walks the catalog for products at or below the restock
// threshold and logs a restock alert per product. Dispatched after every
// order so stock drops surface quickly.
type LowStockScan struct {
	TriggeredBy string `json:"triggered_by"`
}

// products is injected at boot so queue workers can construct the job
// from its serialized form.
var products *services.ProductService

// Boot wires job dependencies and registers job types with the queue.
// Call once at startup, before queue workers start.
func Boot(ps *services.ProductService) {
	products = ps
	queue.Register("*jobs.LowStockScan", func() queue.Job { return &LowStockScan{} })
}

func (j *LowStockScan) Handle() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	low, err := products.LowStock(ctx)
	if err != nil {
		return err
	}

	for _, p := range low {
		logger.Warn("inventory: restock needed",
			"product", p.ID.Hex(), "sku", p.SKU, "name", p.Name, "stock", p.Stock,
			"triggered_by", j.TriggeredBy)
	}
	return nil
}
