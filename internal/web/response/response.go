// Package response holds the json envelopes returned by the api.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorCodeValidation marks request parameter errors.
const ErrorCodeValidation = "validation_error"

// ResponseBase is embedded by every envelope.
type ResponseBase struct { //nolint:revive
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	ResponseBase
	ErrorCode string         `json:"error_code,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// PaginatedResponse wraps one page of items.
type PaginatedResponse struct {
	ResponseBase
	Total    int   `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Pages    int   `json:"pages"`
	Items    []any `json:"items"`
}

// Error sends an ErrorResponse with the given status.
func Error(c *fiber.Ctx, status int, message, code string, details map[string]any) error {
	return c.Status(status).JSON(ErrorResponse{
		ResponseBase: ResponseBase{Success: false, Message: message},
		ErrorCode:    code,
		Details:      details,
	})
}

// InternalError sends a 500 carrying only the error text.
func InternalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ResponseBase{
		Success: false,
		Message: err.Error(),
	})
}

// ErrorHandler is the fiber error handler. Errors returned by handlers and recovered panics are
// sent as a ResponseBase, with the status of a *fiber.Error or 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(ResponseBase{
		Success: false,
		Message: err.Error(),
	})
}
