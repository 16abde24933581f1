package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/washdesk/backend/config"
	"github.com/washdesk/backend/internal/dispatch"
	handler "github.com/washdesk/backend/internal/handler/http"
	"github.com/washdesk/backend/internal/logger"
	"github.com/washdesk/backend/internal/payment"
	"github.com/washdesk/backend/internal/repository"
	"github.com/washdesk/backend/internal/repository/postgres"
	"github.com/washdesk/backend/internal/service"
	"go.uber.org/zap"
)

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	// dependency injection
	// orders
	orderRepo := repository.NewOrderRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	cursorRepo := repository.NewCursorRepository(db)

	dispatcher := dispatch.New(cursorRepo)
	payments := payment.NewSimulator()

	orderService := service.NewOrderService(orderRepo, catalogRepo, dispatcher, payments)
	orderHandler := handler.NewOrderHandler(orderService)

	// jobs
	jobService := service.NewJobService(orderRepo)
	jobHandler := handler.NewJobHandler(jobService)

	router := chi.NewRouter()

	router.Use(handler.Logging(logger.Log))

	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// customer and admin facing
	router.Post("/api/orders", orderHandler.CreateOrder())
	router.Get("/api/orders", orderHandler.ListOrders())
	router.Get("/api/orders/{orderID}", orderHandler.GetOrder())
	router.Post("/api/orders/{orderID}/status", orderHandler.UpdateOrderStatus())
	router.Post("/api/orders/{orderID}/pay", orderHandler.PayOrder())

	// technician facing
	router.Get("/api/jobs/incoming", jobHandler.IncomingJobs())
	router.Get("/api/jobs/queue", jobHandler.QueueJobs())
	router.Get("/api/jobs/history", jobHandler.JobHistory())
	router.Post("/api/jobs/{orderID}/accept", jobHandler.AcceptJob())
	router.Post("/api/jobs/{orderID}/decline", jobHandler.DeclineJob())

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
