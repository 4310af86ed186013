package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/1990jr/mindelo-lausanne-time-bridge/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// fromDomainError maps domain error codes onto transport statuses.
func fromDomainError(err error) *HTTPError {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return asHTTPError(err)
	}
	status := http.StatusInternalServerError
	switch appErr.Code {
	case "invalid_input":
		status = http.StatusBadRequest
	case "invalid_token":
		status = http.StatusForbidden
	case "unauthorized":
		status = http.StatusUnauthorized
	}
	return NewHTTPError(status, appErr.Code, appErr.Message, err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
