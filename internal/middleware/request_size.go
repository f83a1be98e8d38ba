package middleware

import (
	"net/http"
)

// DefaultMaxRequestSize is the body limit applied by the server
const DefaultMaxRequestSize int64 = 10 * 1024 * 1024 // 10MB

// RequestSizeLimit limits the size of request bodies to maxRequestSize bytes
func RequestSizeLimit(maxRequestSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxRequestSize {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
			next.ServeHTTP(w, r)
		})
	}
}
