package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotel-booking-ledger/internal/api_gateway/handler"
	"github.com/hotel-booking-ledger/internal/api_gateway/middleware"
	"github.com/hotel-booking-ledger/internal/observability/metrics"
)

// handlers groups the HTTP handlers mounted by setupRouter
type handlers struct {
	resources   *handler.ResourceHandler
	bookings    *handler.BookingHandler
	invoices    *handler.InvoiceHandler
	payments    *handler.PaymentHandler
	assignments *handler.AssignmentHandler
	readiness   map[string]Pinger
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers, limiter *middleware.RateLimiter) {
	// Correlation ID first so the recovery and access logs can carry it
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())

	// Health check and scrape endpoints stay outside the limiter
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	r.GET("/ready", readinessHandler(h.readiness))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	if limiter != nil {
		v1.Use(limiter.Limit())
	}
	{
		resources := v1.Group("/resources")
		{
			resources.GET("", h.resources.List)
			resources.GET("/:id", h.resources.GetByID)
		}

		v1.POST("/quotes", h.resources.Quote)

		bookings := v1.Group("/bookings")
		{
			bookings.POST("", h.bookings.Create)
			bookings.GET("", h.bookings.List)
			bookings.GET("/:id", h.bookings.GetByID)
			bookings.POST("/:id/complete", h.bookings.Complete)
			bookings.POST("/:id/cancel", h.bookings.Cancel)
			bookings.DELETE("/:id", h.bookings.Delete)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.POST("", h.invoices.Create)
			invoices.GET("", h.invoices.List)
			invoices.GET("/:id", h.invoices.GetByID)
			invoices.POST("/:id/cancel", h.invoices.Cancel)
			invoices.POST("/:id/payments", h.payments.Create)
			invoices.GET("/:id/payments", h.payments.ListByInvoice)
		}

		v1.GET("/payments/:id", h.payments.GetByID)

		assignments := v1.Group("/assignments")
		{
			assignments.POST("", h.assignments.Create)
			assignments.POST("/:id/complete", h.assignments.Complete)
		}

		v1.GET("/staff/:id/assignments", h.assignments.ListForStaff)
	}
}
