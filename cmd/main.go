package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skadam/cafe/internal/adapter/localstore"
	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/adapter/postgres"
	"github.com/skadam/cafe/internal/adapter/rabbitmq"
	"github.com/skadam/cafe/internal/app/catalog"
	"github.com/skadam/cafe/internal/app/loyalty"
	"github.com/skadam/cafe/internal/app/order"
	"github.com/skadam/cafe/internal/app/promotion"
	"github.com/skadam/cafe/internal/app/settlement"
	"github.com/skadam/cafe/internal/app/staff"
	"github.com/skadam/cafe/internal/config"
	"github.com/skadam/cafe/internal/interfaces"

	amqpAdapter "github.com/skadam/cafe/internal/adapter/amqp"
	httpAdapter "github.com/skadam/cafe/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: admin-api, notification-subscriber")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	storage := flag.String("storage", "", "Storage backend: local, postgres (overrides config)")
	dataDir := flag.String("data-dir", "", "Local blob store directory (overrides config)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *storage != "" {
		cfg.Storage.Backend = *storage
	}
	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}
	if cfg.Storage.Backend != "local" && cfg.Storage.Backend != "postgres" {
		log.Fatalf("Invalid storage backend: %s", cfg.Storage.Backend)
	}

	ctx := context.Background()
	lgr := logger.New(*mode)

	switch *mode {
	case "admin-api":
		runAdminAPI(ctx, cfg, lgr)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, cfg, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runAdminAPI(ctx context.Context, cfg *config.Config, lgr logger.Logger) {
	blobs, err := localstore.New(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("Failed to open data dir: %v", err)
	}

	// Catalog and staff data always lives in the local blob store; only the
	// shared order, loyalty, and promotion state moves to postgres.
	var (
		orderMirror     interfaces.OrderMirror
		counter         interfaces.OrderCounter
		loyaltyMirror   interfaces.LoyaltyMirror
		promotionMirror interfaces.PromotionMirror
		listener        *postgres.Listener
	)

	switch cfg.Storage.Backend {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}

		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]any{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})

		orderMirror = postgres.NewOrderRepository(db)
		counter = postgres.NewCounter(db)
		loyaltyMirror = postgres.NewLoyaltyRepository(db)
		promotionMirror = postgres.NewPromotionRepository(db)
		listener = postgres.NewListener(cfg.Database, lgr)

	default:
		localCounter := localstore.NewCounter(blobs, lgr)
		if err := localCounter.Load(ctx); err != nil {
			log.Fatalf("Failed to load order counter: %v", err)
		}
		orderMirror = localstore.NewOrderMirror(blobs)
		counter = localCounter
		loyaltyMirror = localstore.NewLoyaltyMirror(blobs)
		promotionMirror = localstore.NewPromotionMirror(blobs)
	}

	// Notifications are best-effort: the admin API runs fine without a broker.
	var publisher interfaces.NotificationPublisher
	if mqConn, err := rabbitmq.Connect(cfg.RabbitMQ); err != nil {
		lgr.Error("rabbitmq_unavailable", "RabbitMQ unavailable, notifications disabled", "startup", nil, err)
	} else {
		defer mqConn.Close()
		publisher = rabbitmq.NewPublisher(mqConn)
		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]any{
			"host": cfg.RabbitMQ.Host,
		})
	}

	catalogService := catalog.NewService(localstore.NewCatalogMirror(blobs), lgr)
	staffService := staff.NewService(localstore.NewStaffMirror(blobs), lgr)
	orderService := order.NewService(orderMirror, counter, catalogService, publisher, staffService, lgr)
	loyaltyService := loyalty.NewService(loyaltyMirror, lgr)
	promotionService := promotion.NewService(promotionMirror, lgr)
	settlementService := settlement.NewService(orderService, loyaltyService, promotionService, lgr)

	for name, load := range map[string]func(context.Context) error{
		"catalog":    catalogService.Load,
		"orders":     orderService.Load,
		"loyalty":    loyaltyService.Load,
		"promotions": promotionService.Load,
		"staff":      staffService.Load,
	} {
		if err := load(ctx); err != nil {
			log.Fatalf("Failed to load %s state: %v", name, err)
		}
	}

	if listener != nil {
		go func() {
			if err := listener.Subscribe(ctx, orderService.ApplyEvent); err != nil && ctx.Err() == nil {
				lgr.Error("listener_error", "Order event listener stopped", "runtime", nil, err)
			}
		}()
	}

	handler := httpAdapter.NewRouter(httpAdapter.Handlers{
		Orders:     httpAdapter.NewOrderHandler(orderService, settlementService, lgr),
		Catalog:    httpAdapter.NewCatalogHandler(catalogService, lgr),
		Loyalty:    httpAdapter.NewLoyaltyHandler(loyaltyService, lgr),
		Promotions: httpAdapter.NewPromotionHandler(promotionService, lgr),
		Staff:      httpAdapter.NewStaffHandler(staffService, lgr),
	}, lgr)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Admin API started on port %d", cfg.Server.Port), "startup", map[string]any{
		"port":    cfg.Server.Port,
		"backend": cfg.Storage.Backend,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down Admin API", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}

	// Drain pending mirror writes before the process exits.
	catalogService.Flush()
	orderService.Flush()
	loyaltyService.Flush()
	promotionService.Flush()
	staffService.Flush()
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger) {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn, lgr)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	go func() {
		if err := consumer.Consume(ctx, notificationHandler.HandleNotification); err != nil && ctx.Err() == nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
}
