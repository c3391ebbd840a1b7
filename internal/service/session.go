package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkrentals/backoffice/internal/config"
)

// SessionMaxAge is the session cookie lifetime in seconds (7 days), matching
// TokenTTL.
const SessionMaxAge = int(TokenTTL / time.Second)

// SessionConfig holds the immutable cookie settings of a SessionManager.
type SessionConfig struct {
	CookieName string
	// Production enables the Secure attribute and, together with BaseURL,
	// cross-subdomain cookie scoping.
	Production bool
	// BaseURL is the public admin URL, e.g. https://admin.example.com.
	BaseURL string
}

// SessionManager binds session tokens to an HTTP cookie. The server keeps no
// session state: the signed token in the cookie is the session.
type SessionManager struct {
	tokens *TokenService
	name   string
	secure bool
	domain string
	logger *slog.Logger
}

// NewSessionManager creates a SessionManager. The cookie domain is derived
// from cfg.BaseURL in production; a malformed URL is logged and the cookie
// falls back to host-only.
func NewSessionManager(tokens *TokenService, cfg SessionConfig, logger *slog.Logger) *SessionManager {
	m := &SessionManager{
		tokens: tokens,
		name:   cfg.CookieName,
		secure: cfg.Production,
		logger: logger.With(slog.String("component", "session")),
	}
	if m.name == "" {
		m.name = config.DefaultCookieName
	}
	if cfg.Production && cfg.BaseURL != "" {
		domain, err := CookieDomain(cfg.BaseURL)
		if err != nil {
			m.logger.Warn("cannot derive cookie domain from base URL, using host-only cookie",
				"base_url", cfg.BaseURL, "error", err)
		}
		m.domain = domain
	}
	return m
}

// CookieName returns the configured session cookie name.
func (m *SessionManager) CookieName() string {
	return m.name
}

// Domain returns the cookie Domain attribute, or "" for a host-only cookie.
func (m *SessionManager) Domain() string {
	return m.domain
}

// Create sets the session cookie carrying token on the response.
func (m *SessionManager) Create(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    token,
		Path:     "/",
		Domain:   m.domain,
		MaxAge:   SessionMaxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get returns the claims of the request's session, or nil when there is no
// session. A missing cookie and an invalid or expired token look the same.
func (m *SessionManager) Get(r *http.Request) *Claims {
	cookie, err := r.Cookie(m.name)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := m.tokens.Verify(cookie.Value)
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			m.logger.Error("session verification misconfigured", "error", err)
		}
		return nil
	}
	return claims
}

// HasCookie reports whether the request carries a session cookie at all,
// valid or not.
func (m *SessionManager) HasCookie(r *http.Request) bool {
	cookie, err := r.Cookie(m.name)
	return err == nil && cookie.Value != ""
}

// Destroy removes the session cookie from the client. The Domain must match
// the one used at creation or the browser keeps the cookie.
func (m *SessionManager) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		Domain:   m.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAuth returns the session claims or ErrUnauthorized. Mutation
// handlers call it even behind the route guard.
func (m *SessionManager) RequireAuth(r *http.Request) (*Claims, error) {
	claims := m.Get(r)
	if claims == nil {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// CookieDomain derives a cookie Domain attribute from the last two labels of
// baseURL's hostname, so admin.example.com yields ".example.com". Hosts with
// fewer than two labels and IP addresses yield "" (host-only).
func CookieDomain(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("base url %q has no host", baseURL)
	}
	if net.ParseIP(host) != nil {
		return "", nil
	}
	labels := strings.Split(strings.TrimSuffix(host, "."), ".")
	if len(labels) < 2 {
		return "", nil
	}
	return "." + strings.Join(labels[len(labels)-2:], "."), nil
}
