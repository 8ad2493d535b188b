package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/keva-agency/keva-site/pkg/logging"
)

// RequestLogger logs one structured line per completed request with the
// response status and size. Bodies are never logged.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := requestID(r)
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"request_id", reqID,
					"remote_ip", r.RemoteAddr,
					"duration_ms", time.Since(start).Milliseconds(),
				}
				if status >= http.StatusInternalServerError {
					logger.Error("request completed", attrs...)
					return
				}
				logger.Info("request completed", attrs...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// requestID prefers the id assigned by chi's RequestID middleware, then the
// caller's X-Request-ID header.
func requestID(r *http.Request) string {
	if id := chimw.GetReqID(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}
