package components

import (
	"log/slog"

	"github.com/hotel-booking-ledger/internal/config"
	"github.com/hotel-booking-ledger/internal/domain/invoice"
	"github.com/hotel-booking-ledger/internal/domain/outbox"
	"github.com/hotel-booking-ledger/internal/domain/payment"
	"github.com/hotel-booking-ledger/internal/payment_processor/service"
	"github.com/hotel-booking-ledger/internal/platform/persistence"
)

// Repositories are the stores the processing pipeline reads and writes
type Repositories struct {
	Invoices invoice.Repository
	Outbox   outbox.Repository
	Payments payment.Repository
}

// CreateProcessingService wires the processing pipeline and, when possible,
// puts it behind a worker pool of cfg.WorkerPool.Size goroutines.
func CreateProcessingService(
	db persistence.TxBeginner,
	repos Repositories,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	validator := NewPaymentValidator(repos.Payments, repos.Outbox, logger)
	invoiceManager := NewInvoiceManager(repos.Invoices, logger)
	outboxManager := NewOutboxManager(repos.Outbox, logger)
	failureRecorder := NewFailureRecorder(repos.Payments, logger)

	baseService := service.NewProcessingService(
		db,
		validator,
		invoiceManager,
		outboxManager,
		failureRecorder,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
