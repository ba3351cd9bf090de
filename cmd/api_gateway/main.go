package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hotel-booking-ledger/internal/api_gateway"
	"github.com/hotel-booking-ledger/internal/api_gateway/middleware"
	"github.com/hotel-booking-ledger/internal/api_gateway/service"
	"github.com/hotel-booking-ledger/internal/config"
	"github.com/hotel-booking-ledger/internal/data/mongo"
	"github.com/hotel-booking-ledger/internal/data/postgres"
	"github.com/hotel-booking-ledger/internal/data/redis"
	"github.com/hotel-booking-ledger/internal/domain/pricing"
	"github.com/hotel-booking-ledger/internal/logger"
	"github.com/hotel-booking-ledger/internal/observability/metrics"
	"github.com/hotel-booking-ledger/internal/platform/messaging/producers"
	"github.com/hotel-booking-ledger/internal/platform/persistence"
)

const rateLimiterSweepInterval = time.Minute

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)
	metrics.Init()

	log.Info("Starting API Gateway",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Migrations run as part of the pool setup
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	redisClient, err := persistence.NewRedisClient(appCtx, log, &cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize Redis", "error", err)
		os.Exit(1)
	}

	kafkaProducer, err := producers.NewPaymentRequestProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize payment request Kafka producer", "error", err)
		os.Exit(1)
	}

	// Repositories
	resourceRepo := postgres.NewResourceRepository(log, postgresDB)
	clientRepo := postgres.NewClientRepository(log, postgresDB)
	bookingRepo := postgres.NewBookingRepository(log, postgresDB)
	invoiceRepo := postgres.NewInvoiceRepository(log, postgresDB)
	assignmentRepo := postgres.NewAssignmentRepository(log, postgresDB)
	paymentRepo := mongo.NewPaymentRepository(log, mongoDB.Database())
	if err := paymentRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to ensure payment history indexes", "error", err)
		os.Exit(1)
	}
	idempotencyStore := redis.NewIdempotencyStore(log, redisClient, cfg.Redis.IdempotencyTTL)

	engine := pricing.NewEngine()

	services := api_gateway.Services{
		Resources: service.NewResourceService(resourceRepo, engine),
		Bookings: service.NewBookingService(log, service.BookingServiceDeps{
			DB:           postgresDB,
			Bookings:     bookingRepo,
			Invoices:     invoiceRepo,
			Catalog:      resourceRepo,
			Directory:    clientRepo,
			Engine:       engine,
			OverlapCheck: cfg.Booking.OverlapCheck,
		}),
		Invoices:    service.NewInvoiceService(log, postgresDB, invoiceRepo),
		Payments:    service.NewPaymentService(log, invoiceRepo, paymentRepo, idempotencyStore, kafkaProducer),
		Assignments: service.NewAssignmentService(log, postgresDB, assignmentRepo),
		Readiness: map[string]api_gateway.Pinger{
			"postgres": postgresDB,
			"mongodb":  mongoDB,
			"redis":    api_gateway.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		},
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(log, cfg.RateLimit)
		limiter.StartJanitor(appCtx, rateLimiterSweepInterval)
	}

	server := api_gateway.NewServer(log, cfg, services, limiter)
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Drain in-flight requests before closing their stores
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = kafkaProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if err = redisClient.Close(); err != nil {
		log.Error("Error closing Redis client", "error", err)
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
