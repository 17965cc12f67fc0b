package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/kambaz-client/internal/apiclient"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger utils.Logger, service string) *ServiceLogger {
	return &ServiceLogger{
		logger: utils.ToSlogLogger(logger).With("service", service),
	}
}

// LogOperation logs the outcome of one service call. The level follows the kind of
// failure: local rejections are warnings, transport failures errors.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, userID, resourceID string, started time.Time, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		if IsValidation(err) {
			level = slog.LevelWarn
			status = "validation_error"
		} else if IsUnauthorized(err) {
			level = slog.LevelWarn
			status = "unauthorized"
		} else if _, ok := apiclient.IsAPIError(err); ok {
			level = slog.LevelWarn
			status = "rejected"
		} else if IsNotFound(err) {
			level = slog.LevelInfo
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.Duration("duration", time.Since(started)),
	}
	if resourceID != "" {
		attrs = append(attrs, slog.String("resource_id", resourceID))
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		if validationErr, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		} else if apiErr, ok := apiclient.IsAPIError(err); ok {
			attrs = append(attrs, slog.Int("status_code", apiErr.Status))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}
