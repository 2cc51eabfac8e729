package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/notifications"
	"github.com/jacksonmollel/pesamart/internal/core/orders"
)

// StartLowStockWorker polls inventory and posts a webhook alert for every
// item that drops to its reorder level. An item alerts once and re-arms
// after its stock recovers.
func StartLowStockWorker(svc *orders.Service, webhookURL string, interval time.Duration) {
	go func() {
		slog.Info("👷 Low-stock worker started", "interval", interval)
		alerted := make(map[int64]bool)
		for {
			scan(svc, webhookURL, alerted)
			time.Sleep(interval)
		}
	}()
}

func scan(svc *orders.Service, webhookURL string, alerted map[int64]bool) {
	ctx := context.Background()

	items, err := svc.LowStock(ctx)
	if err != nil {
		slog.Error("Worker: Failed to scan inventory", "error", err)
		return
	}

	low := make(map[int64]bool, len(items))
	for _, item := range items {
		low[item.ProductID] = true
		if alerted[item.ProductID] {
			continue
		}

		if webhookURL == "" {
			slog.Warn("⚠️ Low stock detected but WEBHOOK_URL is not set",
				"product_id", item.ProductID, "stock", item.StockQuantity)
			alerted[item.ProductID] = true
			continue
		}

		if err := notifications.SendWebhook(webhookURL, lowStockPayload(item)); err != nil {
			slog.Error("Worker: Webhook failed", "error", err, "product_id", item.ProductID)
			continue
		}

		slog.Info("✅ Worker: Low-stock alert sent", "product_id", item.ProductID, "stock", item.StockQuantity)
		alerted[item.ProductID] = true
	}

	// Re-arm items whose stock came back up.
	for id := range alerted {
		if !low[id] {
			delete(alerted, id)
		}
	}
}

func lowStockPayload(item *domain.Inventory) map[string]interface{} {
	return map[string]interface{}{
		"event": "inventory.low_stock",
		"data": map[string]interface{}{
			"product_id":     item.ProductID,
			"stock_quantity": item.StockQuantity,
			"reorder_level":  item.ReorderLevel,
			"timestamp":      time.Now(),
		},
	}
}
