package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hotel-booking-ledger/internal/api_gateway/middleware"
	"github.com/hotel-booking-ledger/internal/domain/shared"
)

// respondError maps a service error onto the response envelope. Store and
// unknown errors are logged and hidden behind a 500.
func respondError(c *gin.Context, logger *slog.Logger, action string, err error) {
	var (
		validationErr shared.ValidationError
		notFoundErr   shared.NotFoundError
		stateErr      shared.InvalidStateError
		conflictErr   shared.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		RespondValidationError(c, validationErr.Error())
	case errors.As(err, &notFoundErr):
		RespondNotFound(c, notFoundErr.Error())
	case errors.As(err, &stateErr):
		RespondInvalidState(c, stateErr.Error())
	case errors.As(err, &conflictErr):
		logger.Warn("Request lost a conflict", "action", action, "error", err)
		RespondConflict(c, conflictErr.Error())
	default:
		logger.Error("Failed to "+action, "error", err, "correlation_id", middleware.GetCorrelationID(c))
		RespondInternalError(c)
	}
}
