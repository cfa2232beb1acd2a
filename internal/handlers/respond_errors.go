package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shawqlabs/fxn_backend/internal/apperrors"
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shawqlabs/fxn_backend/internal/dto"
	"github.com/shawqlabs/fxn_backend/internal/middleware"
)

// providerErrorStatus maps a provider failure class to an HTTP status.
// Missing credentials are the operator's fault (500), an exhausted quota is
// surfaced as 429 so callers can back off, transport and malformed-response
// failures are upstream faults (502), and the rest mean the request asked for
// something the provider cannot serve (400).
func providerErrorStatus(code domain.ErrorCode) int {
	switch code {
	case domain.CodeMissingAPIKey:
		return http.StatusInternalServerError
	case domain.CodeQuotaReached:
		return http.StatusTooManyRequests
	case domain.CodeRateUnavailable:
		return http.StatusBadRequest
	case domain.CodeNetworkError, domain.CodeInvalidResponse:
		return http.StatusBadGateway
	case domain.CodeHTTPError, domain.CodeProviderError:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Machine-readable codes for non-provider failures. Provider failures carry
// their own domain.ErrorCode instead.
const (
	codeValidationError = "validation_error"
	codeNotFound        = "not_found"
	codeConflict        = "conflict"
	codeNotConfigured   = "not_configured"
	codeInternalError   = "internal_error"
)

// classCode maps a service error to its response code via the wrapped
// sentinel, so every error body carries a code the client can switch on.
func classCode(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return codeValidationError
	case errors.Is(err, apperrors.ErrNotFound):
		return codeNotFound
	case errors.Is(err, apperrors.ErrDuplicate):
		return codeConflict
	case errors.Is(err, apperrors.ErrNotConfigured):
		return codeNotConfigured
	}
	return codeInternalError
}

// respondError writes the uniform error body for a service failure. Tier is
// included when the caller knows which provider slot the failure came from.
func respondError(c *gin.Context, err error, tier domain.Tier) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		status := providerErrorStatus(perr.Code)
		if status >= http.StatusInternalServerError {
			logger.Error("Provider call failed", slog.String("provider", string(perr.Provider)), slog.String("code", string(perr.Code)), slog.String("error", perr.Message))
		} else {
			logger.Warn("Provider call failed", slog.String("provider", string(perr.Provider)), slog.String("code", string(perr.Code)), slog.String("error", perr.Message))
		}
		c.JSON(status, dto.ErrorResponse{
			Success:  false,
			Error:    perr.Message,
			Code:     string(perr.Code),
			Provider: string(perr.Provider),
			Tier:     string(tier),
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.String("error", err.Error()))
		} else {
			logger.Warn("Request rejected", slog.String("error", err.Error()))
		}
		c.JSON(appErr.Code, dto.ErrorResponse{Success: false, Error: appErr.Message, Code: classCode(appErr), Tier: string(tier)})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: err.Error(), Code: codeValidationError})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Success: false, Error: err.Error(), Code: codeNotFound})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Success: false, Error: err.Error(), Code: codeConflict})
	case errors.Is(err, apperrors.ErrNotConfigured):
		logger.Error("Missing configuration", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Success: false, Error: err.Error(), Code: codeNotConfigured, Tier: string(tier)})
	default:
		logger.Error("Unexpected failure", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Success: false, Error: "Internal server error", Code: codeInternalError})
	}
}

// respondBindError writes the 400 body for a malformed request payload.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: "Invalid request format: " + err.Error(), Code: codeValidationError})
}
