package handler

import (
	"net/http"
	"time"

	"github.com/brightpath/ledger-backend/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AccrualHandler handles accrual-processing HTTP requests
type AccrualHandler struct {
	batchService *service.BatchService
	validate     *validator.Validate
}

// NewAccrualHandler creates a new AccrualHandler
func NewAccrualHandler(batchService *service.BatchService) *AccrualHandler {
	return &AccrualHandler{
		batchService: batchService,
		validate:     validator.New(),
	}
}

// ProcessAccrualsRequest represents the process-accruals request body
type ProcessAccrualsRequest struct {
	PeriodStartDate string `json:"periodStartDate" validate:"required,datetime=2006-01-02"`
}

// ProcessAccruals handles POST /api/v1/accruals/process
func (h *AccrualHandler) ProcessAccruals(c echo.Context) error {
	var req ProcessAccrualsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if err := h.validate.Struct(&req); err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "periodStartDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	periodStart, err := time.Parse("2006-01-02", req.PeriodStartDate)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "periodStartDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	report, err := h.batchService.Run(periodStart)
	if err != nil {
		log.Error().Err(err).Msg("Accrual batch failed")
		return NewInternalError(c, "Failed to process accruals")
	}

	return c.JSON(http.StatusOK, report)
}
