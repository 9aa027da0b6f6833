// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/system/authz"
	"github.com/dalemusser/reliefhub/internal/app/system/requestid"
	"go.uber.org/zap"
)

// ErrorLogger logs a handler failure with request context and renders the
// matching error page. The user only ever sees userMsg.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	_, _, uid, ok := authz.UserCtx(r)
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := requestid.FromRequest(r); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if ok {
		fields = append(fields, zap.String("user_id", uid.Hex()))
	}
	return fields
}

// LogServerError logs at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Error(logMsg, e.fields(r, err)...)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogNotFound logs at info level and renders a 404 page.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Info(logMsg, e.fields(r, err)...)
	RenderNotFound(w, r, userMsg, backURL)
}
