package respond

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/apperr"
	"scholarvalley-api/internal/shared/telemetry"
)

const maxDetailLen = 200

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError maps a classified error to its status code. Unclassified errors
// go through the Internal safety net.
func FromError(c *gin.Context, err error) {
	msg := apperr.Message(err)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		Error(c, http.StatusBadRequest, "validation_error", msg, nil)
	case errors.Is(err, apperr.ErrConflict):
		Error(c, http.StatusBadRequest, "conflict", msg, nil)
	case errors.Is(err, apperr.ErrUnprocessable):
		Error(c, http.StatusUnprocessableEntity, "validation_error", msg, nil)
	case errors.Is(err, apperr.ErrUnauthenticated):
		Error(c, http.StatusUnauthorized, "unauthorized", msg, nil)
	case errors.Is(err, apperr.ErrForbidden):
		Error(c, http.StatusForbidden, "forbidden", msg, nil)
	case errors.Is(err, apperr.ErrNotFound):
		Error(c, http.StatusNotFound, "not_found", msg, nil)
	case errors.Is(err, apperr.ErrUpstream):
		logCause(c, err)
		Error(c, http.StatusBadGateway, "upstream_error", msg, nil)
	case errors.Is(err, apperr.ErrUnconfigured):
		Error(c, http.StatusInternalServerError, "not_configured", msg, nil)
	case errors.Is(err, apperr.ErrInternal):
		logCause(c, err)
		Error(c, http.StatusInternalServerError, "internal_error", msg, nil)
	default:
		Internal(c, err)
	}
}

// Internal is the top-level safety net: a generic 500 whose detail is
// truncated and scrubbed of connection or credential text.
func Internal(c *gin.Context, err error) {
	logCause(c, err)
	Error(c, http.StatusInternalServerError, "internal", "Internal server error", gin.H{"error": SafeDetail(err)})
}

// SafeDetail returns a client-safe description of err.
func SafeDetail(err error) string {
	if err == nil {
		return "unknown error"
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "unknown error"
	}
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "connection") || strings.Contains(lower, "connect") {
		return "Database connection failed. Check that PostgreSQL is running and DATABASE_URL is correct."
	}
	if strings.Contains(lower, "password") || strings.Contains(lower, "auth") {
		return "Database authentication failed. Check DATABASE_URL credentials."
	}
	if len(msg) > maxDetailLen {
		msg = msg[:maxDetailLen]
	}
	return msg
}

func logCause(c *gin.Context, err error) {
	if err == nil {
		return
	}
	telemetry.Error("http.cause", map[string]any{
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("requestId"),
		"err":        err.Error(),
	})
}
