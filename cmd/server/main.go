package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tome-treasures/order-service/internal/config"
	"github.com/tome-treasures/order-service/internal/gateway"
	"github.com/tome-treasures/order-service/internal/handlers"
	"github.com/tome-treasures/order-service/internal/middleware"
	"github.com/tome-treasures/order-service/internal/rabbitmq"
	"github.com/tome-treasures/order-service/internal/repository"
	"github.com/tome-treasures/order-service/internal/service"
	"github.com/tome-treasures/order-service/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting order service",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"store_backend", cfg.Store.Backend,
		"notifier_backend", cfg.Notifier.Backend,
		"log_level", cfg.LogLevel,
	)

	ctx := context.Background()

	// Initialize order store
	var repo repository.OrderRepository
	switch cfg.Store.Backend {
	case "postgres":
		db, err := repository.ConnectDB(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		repo = repository.NewPostgresOrderRepository(db)
	default:
		repo = repository.NewInMemoryOrderRepository()
	}

	// Initialize gateways
	inventory := gateway.NewHTTPInventoryGateway(
		cfg.Inventory.BaseURL,
		time.Duration(cfg.Inventory.Timeout)*time.Second,
		log,
	)

	var notifier gateway.NotificationGateway
	switch cfg.Notifier.Backend {
	case "amqp":
		client, err := rabbitmq.Dial(cfg.Notifier.AMQPURL)
		if err != nil {
			log.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		if err := client.ExchangeDeclare(cfg.Notifier.Exchange, "topic"); err != nil {
			log.Error("failed to declare exchange", "error", err)
			os.Exit(1)
		}
		notifier = gateway.NewAMQPNotificationGateway(
			client,
			cfg.Notifier.Exchange,
			cfg.Notifier.RoutingKey,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
	default:
		notifier = gateway.NewHTTPNotificationGateway(
			cfg.Notifier.EmailServiceURL,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
	}

	// Initialize services
	orderService := service.NewOrderService(repo, inventory, notifier, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	orderHandler := handlers.NewOrderHandler(orderService, log)
	checkoutHandler := handlers.NewCheckoutHandler(cfg.Stripe, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api/order", func(r chi.Router) {
		r.Post("/", orderHandler.PlaceOrder)
		r.Post("/create-checkout-session", checkoutHandler.CreateCheckoutSession)

		// Admin-only listing
		r.With(middleware.APIKeyAuth(cfg.Auth)).Get("/all", orderHandler.ListAll)

		r.Get("/{userEmail}", orderHandler.ListByEmail)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
