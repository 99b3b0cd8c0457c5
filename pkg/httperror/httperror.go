package httperror

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error is returned by handlers and rendered by the HTTP layer as
// {code, message, details}. Cause is only logged.
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(status int, code, message string, details any) *Error {
	e := &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}

	// internal diagnostics never reach the client
	if err, ok := details.(error); ok {
		e.Cause = err
		e.Details = nil
		if status < fiber.StatusInternalServerError {
			e.Details = err.Error()
		}
	}

	return e
}

func BadRequest(code, message string, details any) *Error {
	return New(fiber.StatusBadRequest, code, message, details)
}

func Unauthorized(code, message string, details any) *Error {
	return New(fiber.StatusUnauthorized, code, message, details)
}

func Forbidden(code, message string, details any) *Error {
	return New(fiber.StatusForbidden, code, message, details)
}

func NotFound(code, message string, details any) *Error {
	return New(fiber.StatusNotFound, code, message, details)
}

func InternalServerError(code, message string, details any) *Error {
	return New(fiber.StatusInternalServerError, code, message, details)
}
