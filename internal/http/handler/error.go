package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"accredapi/internal/http/middleware"
	"accredapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorDetails(c, status, code, message, nil)
}

func writeErrorDetails(c *fiber.Ctx, status int, code, message string, details map[string]string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps a service failure onto the error body. Unknown errors are
// logged with the request id and reported as INTERNAL_ERROR.
func writeServiceError(c *fiber.Ctx, log *slog.Logger, err error) error {
	var se *service.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case service.KindValidation:
			return writeErrorDetails(c, fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", se.Message, se.Fields)
		case service.KindForbidden:
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", se.Message)
		case service.KindInvalidTransition:
			return writeError(c, fiber.StatusConflict, "INVALID_TRANSITION", se.Message)
		case service.KindNotFound:
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", se.Message)
		case service.KindStorage:
			logFailure(c, log, err)
			return writeError(c, fiber.StatusInternalServerError, "STORAGE_UNAVAILABLE", se.Message)
		}
	}
	logFailure(c, log, err)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func logFailure(c *fiber.Ctx, log *slog.Logger, err error) {
	if log == nil {
		return
	}
	log.Error("request_failed",
		"request_id", middleware.RequestIDFrom(c),
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			msg := "authentication required"
			if fe != nil && fe.Message != "" {
				msg = fe.Message
			}
			return writeError(c, status, "UNAUTHORIZED", msg)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
