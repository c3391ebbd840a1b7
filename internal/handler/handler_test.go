package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkrentals/backoffice/internal/config"
	"github.com/mkrentals/backoffice/internal/model"
	"github.com/mkrentals/backoffice/internal/service"
)

const (
	testJWTSecret = "test-secret-for-handler-tests-0123456789"
	testPassword  = "supersecretpassword"
)

// testEnv holds shared state for handler integration tests.
type testEnv struct {
	store    *config.Store
	tokens   *service.TokenService
	sessions *service.SessionManager
	router   chi.Router
}

// newTestEnv creates a fresh test environment with an in-memory store and a
// Chi router with the handlers mounted (no route guard).
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := config.NewStore("") // in-memory SQLite
	if err != nil {
		t.Fatalf("config.NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return newTestEnvWithStore(t, store, store)
}

// newTestEnvWithStore wires handlers over an arbitrary CredentialStore; the
// concrete store is kept for seeding.
func newTestEnvWithStore(t *testing.T, store *config.Store, creds service.CredentialStore) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher := service.NewBcryptHasher(bcrypt.MinCost)
	tokens := service.NewTokenService(testJWTSecret)
	sessions := service.NewSessionManager(tokens, service.SessionConfig{}, logger)

	authHandler := NewAuthHandler(service.NewAuthService(creds, hasher, tokens, logger), sessions, logger)
	setupHandler := NewSetupHandler(service.NewBootstrapCoordinator(creds, hasher, logger), logger)
	pages := NewPageHandler(fstest.MapFS{
		"login.html":     {Data: []byte("<html>login</html>")},
		"index.html":     {Data: []byte("<html>dashboard</html>")},
		"assets/app.css": {Data: []byte("body{}")},
	}, sessions, logger)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/me", authHandler.Me)
		r.Get("/setup/check", setupHandler.Check)
		r.Post("/setup", setupHandler.Setup)
	})
	r.Get("/openapi.json", NewOpenAPIHandler("admin_session", "").ServeSpec)
	r.Get("/login", pages.Login)
	r.Handle("/assets/*", pages.Static())
	r.Get("/*", pages.Dashboard)

	return &testEnv{
		store:    store,
		tokens:   tokens,
		sessions: sessions,
		router:   r,
	}
}

// seedAdmin creates an active admin with testPassword and returns it.
func (e *testEnv) seedAdmin(t *testing.T, username string) *model.Admin {
	t.Helper()
	hash, err := service.NewBcryptHasher(bcrypt.MinCost).Hash(testPassword)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	admin := &model.Admin{
		Username:     username,
		PasswordHash: hash,
		FullName:     "Test Admin",
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := e.store.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("seedAdmin: %v", err)
	}
	return admin
}

// do executes an HTTP request against the test router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// sessionCookie returns a valid session cookie for admin.
func (e *testEnv) sessionCookie(t *testing.T, admin *model.Admin) *http.Cookie {
	t.Helper()
	token, err := e.tokens.Sign(model.SessionAdmin{
		ID:       admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		FullName: admin.FullName,
	})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return &http.Cookie{Name: e.sessions.CookieName(), Value: token}
}

func toJSON(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("toJSON: %v", err)
	}
	return buf
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rr.Code, want, rr.Body.String())
	}
}

func assertErrorCode(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	var body model.ErrorResponse
	decodeJSON(t, rr, &body)
	if body.Success {
		t.Error("error envelope must have success=false")
	}
	if body.Code != want {
		t.Errorf("code = %q, want %q", body.Code, want)
	}
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decodeJSON: %v; body = %s", err, rr.Body.String())
	}
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
