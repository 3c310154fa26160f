package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/appointment-booking/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status    string      `json:"status"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithError sends an error response with the status derived from err.
func RespondWithError(c *gin.Context, err error) {
	status, message := StatusOf(err)
	c.JSON(status, Response{
		Status:    "error",
		Message:   message,
		RequestID: c.GetString(RequestIDKey),
	})
}

// AbortWithError writes an error response and stops the handler chain.
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Status:    "error",
		Message:   message,
		RequestID: c.GetString(RequestIDKey),
	})
}

// StatusOf maps err onto an HTTP status and a client-safe message.
func StatusOf(err error) (int, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "request timeout"
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode()
		if status == http.StatusInternalServerError {
			return status, "internal server error"
		}
		return status, appErr.Message
	}

	return http.StatusInternalServerError, "internal server error"
}
