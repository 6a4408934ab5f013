package handler

import (
	"context"
	"errors"
	"net/http"

	"propinsight/internal/model"
	"propinsight/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusClientClosedRequest answers callers that abandoned their request
const statusClientClosedRequest = http.StatusRequestTimeout

// writeError maps err to a status code and an ErrorResponse body
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	status, body := errorResponse(err)

	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("request_id", RequestIDFrom(c)),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
	} else {
		logger.Info("Request rejected", fields...)
	}

	c.AbortWithStatusJSON(status, body)
}

func errorResponse(err error) (int, model.ErrorResponse) {
	var (
		validation *model.ValidationError
		domain     *model.DomainError
		transport  *model.TransportError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, model.ErrorResponse{Error: validation.Error(), Field: validation.Field}
	case errors.As(err, &domain):
		return http.StatusUnprocessableEntity, model.ErrorResponse{Error: domain.Message, Code: domain.Code}
	case errors.As(err, &transport):
		status := http.StatusBadGateway
		if transport.Timeout {
			status = http.StatusGatewayTimeout
		}
		return status, model.ErrorResponse{Error: "Estimation service unavailable, please retry", Code: "transport"}
	case errors.Is(err, service.ErrListingNotFound):
		return http.StatusNotFound, model.ErrorResponse{Error: "Listing not found"}
	case errors.Is(err, service.ErrListingSourceDisabled):
		return http.StatusServiceUnavailable, model.ErrorResponse{Error: "Listing database is not configured"}
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, model.ErrorResponse{Error: "Request cancelled"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, model.ErrorResponse{Error: "Request timed out"}
	default:
		return http.StatusInternalServerError, model.ErrorResponse{Error: "Internal error"}
	}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
