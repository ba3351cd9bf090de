package api_gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotel-booking-ledger/internal/api_gateway/handler"
	"github.com/hotel-booking-ledger/internal/api_gateway/middleware"
	"github.com/hotel-booking-ledger/internal/api_gateway/service"
	"github.com/hotel-booking-ledger/internal/config"
)

// Services bundles the application services exposed over HTTP
type Services struct {
	Resources   service.ResourceService
	Bookings    service.BookingService
	Invoices    service.InvoiceService
	Payments    service.PaymentService
	Assignments service.AssignmentService

	// Readiness names the stores checked by GET /ready
	Readiness map[string]Pinger
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger          *slog.Logger // For structured logging
	httpServer      *http.Server // Underlying HTTP server
	httpRouter      *gin.Engine  // Gin router instance
	shutdownTimeout time.Duration
}

// NewServer creates and configures a new HTTP server with the given services.
// A nil limiter leaves the API unthrottled.
func NewServer(log *slog.Logger, cfg *config.Config, services Services, limiter *middleware.RateLimiter) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	setupRouter(log, httpRouter, handlers{
		resources:   handler.NewResourceHandler(log, services.Resources),
		bookings:    handler.NewBookingHandler(log, services.Bookings),
		invoices:    handler.NewInvoiceHandler(log, services.Invoices),
		payments:    handler.NewPaymentHandler(log, services.Payments),
		assignments: handler.NewAssignmentHandler(log, services.Assignments),
		readiness:   services.Readiness,
	}, limiter)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:          log,
		httpServer:      httpServer,
		httpRouter:      httpRouter,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}

// Handler exposes the configured router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server, waiting at most the configured
// shutdown timeout for in-flight requests
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
