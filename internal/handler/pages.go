package handler

import (
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/mkrentals/backoffice/internal/service"
)

// PageHandler serves the embedded login page, the dashboard shell, and their
// static assets.
type PageHandler struct {
	files    fs.FS
	sessions *service.SessionManager
	logger   *slog.Logger
}

// NewPageHandler creates a PageHandler over files, which must contain
// login.html and index.html at its root.
func NewPageHandler(files fs.FS, sessions *service.SessionManager, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		files:    files,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "pages")),
	}
}

// Login serves the login page, or redirects to the dashboard when the
// request already carries a valid session.
// GET /login
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.sessions.Get(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.serveHTML(w, r, "login.html")
}

// assetExtensions mark requests for files rather than pages. Outside /assets/
// they are answered with 404 instead of the dashboard shell.
var assetExtensions = map[string]bool{
	".css": true, ".js": true, ".map": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".webp": true, ".ico": true,
	".woff": true, ".woff2": true, ".ttf": true,
}

// Dashboard serves the dashboard shell. It sits behind the route guard.
// GET /*
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if assetExtensions[strings.ToLower(path.Ext(r.URL.Path))] {
		http.NotFound(w, r)
		return
	}
	h.serveHTML(w, r, "index.html")
}

// Static returns a file server for assets, favicon.ico, and robots.txt.
func (h *PageHandler) Static() http.Handler {
	return http.FileServer(http.FS(h.files))
}

func (h *PageHandler) serveHTML(w http.ResponseWriter, r *http.Request, name string) {
	f, err := h.files.Open(name)
	if err != nil {
		h.logger.Error("page not available", "page", name, "error", err)
		http.Error(w, "UI not available", http.StatusNotFound)
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		http.Error(w, "UI not available", http.StatusNotFound)
		return
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, "UI not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, name, stat.ModTime(), rs)
}
