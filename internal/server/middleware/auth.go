package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mkrentals/backoffice/internal/model"
	"github.com/mkrentals/backoffice/internal/service"
)

type contextKeyAuth string

const (
	// SessionAdminKey is the context key for the admin behind a verified
	// session.
	SessionAdminKey contextKeyAuth = "session_admin"
)

// LoginPath is where unauthenticated page requests are redirected.
const LoginPath = "/login"

// publicPrefixes are path prefixes the guard never gates. API routes carry
// their own checks and answer with JSON instead of redirects.
var publicPrefixes = []string{
	"/api/",
	"/assets/",
}

var publicPaths = map[string]bool{
	LoginPath:       true,
	"/api":          true,
	"/favicon.ico":  true,
	"/robots.txt":   true,
	"/healthz":      true,
	"/readyz":       true,
	"/openapi.json": true,
}

// IsPublicPath reports whether p bypasses the route guard. Static files are
// public only under /assets/; a file extension elsewhere grants nothing.
func IsPublicPath(p string) bool {
	if publicPaths[p] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Guard returns the route guard middleware. Every request outside the public
// allow-list needs a valid session; otherwise the client is redirected to
// LoginPath, and a cookie that was present but did not verify is deleted.
// On success the session admin is attached to the request context.
func Guard(sessions *service.SessionManager, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "guard"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			claims := sessions.Get(r)
			if claims == nil {
				if sessions.HasCookie(r) {
					sessions.Destroy(w)
					logger.Info("cleared invalid session cookie",
						"path", r.URL.Path,
						"request_id", GetRequestID(r.Context()),
					)
				}
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			annotateAdmin(r.Context(), claims.AdminID)
			next.ServeHTTP(w, r.WithContext(WithSessionAdmin(r.Context(), claims.Admin())))
		})
	}
}

// RequireSession returns an HTTP middleware for API routes that need a
// session. It answers 401 with the JSON error envelope instead of
// redirecting.
func RequireSession(sessions *service.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := sessions.RequireAuth(r)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, model.CodeUnauthorized, "Authentication required")
				return
			}
			annotateAdmin(r.Context(), claims.AdminID)
			next.ServeHTTP(w, r.WithContext(WithSessionAdmin(r.Context(), claims.Admin())))
		})
	}
}

// WithSessionAdmin returns a copy of ctx carrying admin.
func WithSessionAdmin(ctx context.Context, admin model.SessionAdmin) context.Context {
	return context.WithValue(ctx, SessionAdminKey, &admin)
}

// GetSessionAdmin extracts the session admin from the context.
// Returns nil if no session is present (i.e., unauthenticated request).
func GetSessionAdmin(ctx context.Context) *model.SessionAdmin {
	if a, ok := ctx.Value(SessionAdminKey).(*model.SessionAdmin); ok {
		return a
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Success: false,
		Code:    code,
		Message: message,
	})
}
