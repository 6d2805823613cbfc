// Package errors holds the shared JSON fallbacks for unknown routes and the
// logger handlers use when a store call fails.
package errors

import (
	"net/http"

	"github.com/dalemusser/strataevents/internal/app/system/jsonutil"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger records server-side failures against the request that hit them.
// A nil *ErrorLogger discards everything.
type ErrorLogger struct {
	logger *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log writes msg at error level with the request's method, path and (when
// the RequestID middleware ran) request id, plus any extra fields.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error, extra ...zap.Field) {
	if e == nil || e.logger == nil {
		return
	}
	fields := make([]zap.Field, 0, 4+len(extra))
	fields = append(fields,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	if id := chimw.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	e.logger.Error(msg, append(fields, extra...)...)
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.Message(w, http.StatusNotFound, "Route not found")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Message(w, http.StatusMethodNotAllowed, "Method not allowed")
}
