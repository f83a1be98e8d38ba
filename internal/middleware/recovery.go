package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// debugPage is the body of a recovered panic when debug output is on
type debugPage struct {
	Error      string `json:"error"`
	Panic      string `json:"panic"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	RequestID  string `json:"request_id"`
	StackTrace string `json:"stack_trace"`
}

// Recovery recovers from panics and logs them.
// With debug set, the response carries the panic value and the stack trace,
// which is how a production server with debug left on leaks its internals.
// Otherwise the client only gets a generic message.
func Recovery(logger *zap.Logger, debugOutput bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				requestID := GetRequestID(r.Context())
				stack := debug.Stack()
				logger.Error("panic recovered",
					zap.String("request_id", requestID),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("error", rec),
					zap.ByteString("stack", stack),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)

				if !debugOutput {
					w.Write([]byte(`{"error":"internal server error"}`))
					return
				}

				json.NewEncoder(w).Encode(debugPage{
					Error:      "internal server error",
					Panic:      fmt.Sprint(rec),
					Method:     r.Method,
					Path:       r.URL.Path,
					RequestID:  requestID,
					StackTrace: string(stack),
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
