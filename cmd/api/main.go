package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jacksonmollel/pesamart/internal/adapter/handler"
	"github.com/jacksonmollel/pesamart/internal/adapter/middleware"
	"github.com/jacksonmollel/pesamart/internal/adapter/storage"
	"github.com/jacksonmollel/pesamart/internal/core/config"
	"github.com/jacksonmollel/pesamart/internal/core/ledger"
	"github.com/jacksonmollel/pesamart/internal/core/orders"
	"github.com/jacksonmollel/pesamart/internal/core/store"
	"github.com/jacksonmollel/pesamart/internal/core/worker"
)

func main() {
	// 1. Load Config
	cfg := config.LoadConfig()

	// 2. Setup Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 3. Wire the Record Store
	var (
		st     store.Store
		dbPool *pgxpool.Pool
	)
	if cfg.DatabaseURL != "" {
		pool, err := storage.ConnectDB(context.Background(), cfg.DatabaseURL)
		if err != nil {
			slog.Error("❌ Database connection failed", "error", err)
			os.Exit(1)
		}
		dbPool = pool

		pg := storage.NewPostgres(pool)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			slog.Error("❌ Schema setup failed", "error", err)
			os.Exit(1)
		}
		st = pg
		slog.Info("✅ Connected to Postgres")
	} else {
		mem, err := storage.NewMemory()
		if err != nil {
			slog.Error("❌ Memory store setup failed", "error", err)
			os.Exit(1)
		}
		st = mem
		slog.Warn("⚠️ DATABASE_URL not set, using in-memory store")
	}

	// 4. Setup Services & Handlers
	ledgerSvc := ledger.NewService(st, ledger.Config{SyncBudgetsOnUpdate: cfg.SyncBudgetsOnUpdate})
	ordersSvc := orders.NewService(st)

	ledgerHandler := &handler.LedgerHandler{Svc: ledgerSvc}
	ordersHandler := &handler.OrdersHandler{Svc: ordersSvc}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	// 6. Routes
	api := app.Group("/v1")

	// Ledger
	api.Post("/accounts", ledgerHandler.CreateAccount)
	api.Get("/accounts", ledgerHandler.ListAccounts)
	api.Get("/accounts/:id", ledgerHandler.GetAccount)
	api.Post("/incomes", ledgerHandler.CreateIncome)
	api.Put("/incomes/:id", ledgerHandler.UpdateIncome)
	api.Delete("/incomes/:id", ledgerHandler.DeleteIncome)
	api.Post("/expenses", ledgerHandler.CreateExpense)
	api.Put("/expenses/:id", ledgerHandler.UpdateExpense)
	api.Delete("/expenses/:id", ledgerHandler.DeleteExpense)
	api.Delete("/transfers/:id", ledgerHandler.DeleteTransfer)
	api.Post("/budgets", ledgerHandler.CreateBudget)
	api.Get("/budgets", ledgerHandler.ListBudgets)
	api.Post("/goals", ledgerHandler.CreateGoal)
	api.Post("/goals/:id/contributions", ledgerHandler.ContributeToGoal)
	api.Get("/users/:id/totals", ledgerHandler.UserTotals)

	// Orders
	api.Post("/orders", ordersHandler.CreateOrder)
	api.Get("/orders/:id", ordersHandler.GetOrder)
	api.Patch("/orders/:id/status", ordersHandler.UpdateOrderStatus)
	api.Get("/orders/:id/payments", ordersHandler.ListOrderPayments)
	api.Post("/payments/:id/process", ordersHandler.ProcessPayment)
	api.Post("/payments/:id/refund", ordersHandler.RefundPayment)
	api.Post("/payments/:id/fail", ordersHandler.FailPayment)
	api.Post("/deliveries", ordersHandler.CreateDelivery)
	api.Patch("/deliveries/:id/status", ordersHandler.UpdateDeliveryStatus)
	api.Put("/deliveries/:id/person", ordersHandler.AssignDeliveryPerson)
	api.Delete("/deliveries/:id", ordersHandler.DeleteDelivery)
	api.Post("/delivery-persons", ordersHandler.CreateDeliveryPerson)
	api.Get("/delivery-persons/available", ordersHandler.AvailableDeliveryPersons)
	api.Post("/cancellations", ordersHandler.CreateCancellation)
	api.Post("/cancellations/:id/process-refund", ordersHandler.ProcessRefund)
	api.Post("/cancellations/:id/complete-refund", ordersHandler.CompleteRefund)
	api.Post("/products", ordersHandler.CreateProduct)
	api.Post("/inventory", ordersHandler.CreateInventory)
	api.Post("/inventory/:productId/decrease", ordersHandler.DecreaseStock)
	api.Post("/inventory/:productId/increase", ordersHandler.IncreaseStock)
	api.Get("/inventory/low-stock", ordersHandler.LowStock)
	api.Post("/discount-rules", ordersHandler.CreateDiscountRule)
	api.Post("/discount-rules/:id/toggle", ordersHandler.ToggleDiscountRule)
	api.Get("/discounts/calculate", ordersHandler.CalculateDiscount)

	// Money-moving writes get idempotency protection when Postgres backs us.
	if dbPool != nil {
		api.Post("/transfers", middleware.Idempotency(dbPool), ledgerHandler.CreateTransfer)
		api.Post("/payments", middleware.Idempotency(dbPool), ordersHandler.CreatePayment)
	} else {
		api.Post("/transfers", ledgerHandler.CreateTransfer)
		api.Post("/payments", ordersHandler.CreatePayment)
	}

	// 7. Start Worker
	worker.StartLowStockWorker(ordersSvc, cfg.WebhookURL, cfg.LowStockInterval)

	// Graceful shutdown: stop accepting requests, then close the pool.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("🚀 Server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("🛑 Shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	if dbPool != nil {
		dbPool.Close()
		slog.Info("✅ Database connection closed")
	}

	slog.Info("👋 Server exited successfully")
}
