package handler

import (
	"github.com/brightpath/ledger-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, auth *middleware.APIKeyAuthMiddleware, rateLimiter *middleware.RateLimiter, accrualHandler *AccrualHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Accrual routes (protected)
	accruals := api.Group("/accruals")
	accruals.Use(auth.Authenticate())
	accruals.Use(middleware.RateLimitMiddleware(rateLimiter))
	accruals.POST("/process", accrualHandler.ProcessAccruals)
}
