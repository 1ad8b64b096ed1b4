package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/kmodep/pkg/errors"
	"github.com/NVIDIA/kmodep/pkg/serializer"
)

// ErrorResponse is the JSON body returned for all error statuses.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes a structured error response.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code errors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// httpStatusFor maps error codes to HTTP status codes.
func httpStatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeUnknownModule, errors.ErrCodeNotADirectory:
		return http.StatusNotFound
	case errors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case errors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case errors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeErrorFrom converts a typed error into an HTTP error response.
func writeErrorFrom(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)
	status := httpStatusFor(code)
	WriteError(w, r, status, code, err.Error(), status >= http.StatusInternalServerError, nil)
}
