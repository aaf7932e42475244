// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with request context and writes the
// JSON error body the client sees.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	f := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		f = append(f, zap.String("request_id", id))
	}
	if err != nil {
		f = append(f, zap.Error(err))
	}
	return f
}

// LogServerError logs err at error level and writes 500 with userMsg.
// The internal error text never reaches the client.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Error(logMsg, e.fields(r, err)...)
	if userMsg == "" {
		userMsg = "Ocorreu um erro inesperado."
	}
	respond.Error(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs err at warn level and writes 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	respond.Error(w, http.StatusBadRequest, userMsg)
}

// NotFound writes 404 {"error": msg}.
func NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Página não encontrada."
	}
	respond.Error(w, http.StatusNotFound, msg)
}

// Forbidden writes 403 {"error": msg}.
func Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Acesso negado."
	}
	respond.Error(w, http.StatusForbidden, msg)
}

// Unauthorized writes 401 asking the client to sign in.
func Unauthorized(w http.ResponseWriter) {
	respond.Error(w, http.StatusUnauthorized, "Faça login para continuar.")
}

// HandleNotFound is the router's catch-all.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	NotFound(w, "")
}

// HandleMethodNotAllowed answers 405 in the same JSON shape.
func HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusMethodNotAllowed, "Método não permitido.")
}
