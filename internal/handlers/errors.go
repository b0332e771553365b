package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hmsuite/hospital_accounting_app/internal/apperrors"
	"github.com/hmsuite/hospital_accounting_app/internal/core/services"
	"github.com/gin-gonic/gin"
)

// parseIDParam reads a path parameter as an int64 id.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondServiceError translates service-layer errors to HTTP responses.
// Business-rule rejections get 422 so callers can tell them apart from
// malformed requests.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound), errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrInvalidLineAmounts),
		errors.Is(err, services.ErrInactiveAccount),
		errors.Is(err, services.ErrCycleDetected):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrImmutableEntry),
		errors.Is(err, services.ErrDuplicateBudget),
		errors.Is(err, services.ErrAccountReferenced),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnbalancedEntry),
		errors.Is(err, services.ErrEmptyEntry),
		errors.Is(err, services.ErrBudgetExceeded),
		errors.Is(err, services.ErrBudgetUnderAllocated):
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
