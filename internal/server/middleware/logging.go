package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// requestLog collects fields that inner middleware learn after the access
// logger has already handed the request on.
type requestLog struct {
	adminID string
}

const requestLogKey contextKey = "request_log"

// annotateAdmin records the authenticated admin on the access log entry, if
// the request passes through Logger.
func annotateAdmin(ctx context.Context, adminID string) {
	if rl, ok := ctx.Value(requestLogKey).(*requestLog); ok {
		rl.adminID = adminID
	}
}

// Logger returns the access log middleware. Each request produces one entry
// at info, warn (4xx) or error (5xx) level. Redirects issued by the guard are
// logged with their target so login bounces are visible.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			rl := &requestLog{}

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestLogKey, rl)))

			level := slog.LevelInfo
			if ww.status >= 500 {
				level = slog.LevelError
			} else if ww.status >= 400 {
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000.0),
				slog.Int("bytes", ww.bytes),
				slog.String("request_id", GetRequestID(r.Context())),
				slog.String("remote_addr", r.RemoteAddr),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					attrs = append(attrs, slog.String("route", pattern))
				}
			}
			if rl.adminID != "" {
				attrs = append(attrs, slog.String("admin_id", rl.adminID))
			}
			if ww.status == http.StatusFound || ww.status == http.StatusSeeOther {
				attrs = append(attrs, slog.String("location", ww.Header().Get("Location")))
			}

			logger.LogAttrs(r.Context(), level, "request", attrs...)
		})
	}
}

// responseWriter captures the status code and body size of a response.
type responseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
