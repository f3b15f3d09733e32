package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/redact"
)

// Stable error codes carried in ApiError.Code.
const (
	CodeValidation     = "0100"
	CodeNotFound       = "0200"
	CodeConflict       = "0300"
	CodeAuthentication = "0400"
	CodeUnexpected     = "9999"
)

// TraceIDHeader echoes the request trace ID on every error response.
const TraceIDHeader = "X-Trace-ID"

// ApiError is a single error entry.
type ApiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Errors    []ApiError `json:"errors"`
	Timestamp time.Time  `json:"timestamp"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel raises 4xx responses from DEBUG to WARN.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithErrors writes an error envelope holding errs.
func RespondWithErrors(w http.ResponseWriter, r *http.Request, status int, errs []ApiError) {
	traceID := GetTraceID(r.Context())
	if traceID != "" {
		w.Header().Set(TraceIDHeader, traceID)
	}

	logger.FromContext(r.Context()).Debug("sending error response",
		"status_code", status,
		"errors", len(errs),
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, ErrorResponse{
		Errors:    errs,
		Timestamp: time.Now().UTC(),
	})
}

// RespondWithError writes an error envelope with a single entry.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	RespondWithErrors(w, r, status, []ApiError{{Code: code, Message: message}})
}

// RespondWithErrorAndLog writes a single-entry error envelope and logs the
// redacted detail of err. 5xx responses log at ERROR, 4xx at DEBUG unless
// elevated.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code string,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("error_code", code),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		logLevel = slog.LevelError
	case responseOpts.elevateLogLevel && status >= http.StatusBadRequest:
		logLevel = slog.LevelWarn
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithError(w, r, status, code, userMessage)
}
