package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkrentals/backoffice/internal/model"
	"github.com/mkrentals/backoffice/internal/service"
)

// SetupHandler serves the first-run bootstrap endpoints.
type SetupHandler struct {
	boot   *service.BootstrapCoordinator
	logger *slog.Logger
}

// NewSetupHandler creates a new SetupHandler.
func NewSetupHandler(boot *service.BootstrapCoordinator, logger *slog.Logger) *SetupHandler {
	return &SetupHandler{
		boot:   boot,
		logger: logger.With(slog.String("component", "setup_handler")),
	}
}

// Check reports whether first-run setup is needed. A failed lookup reports
// false so an unreliable store never opens the bootstrap path.
// GET /api/setup/check
func (h *SetupHandler) Check(w http.ResponseWriter, r *http.Request) {
	needs, err := h.boot.NeedsSetup(r.Context())
	if err != nil {
		h.logger.Error("setup check failed", "error", err)
		writeJSON(w, http.StatusOK, model.SetupCheckResponse{
			NeedsSetup: false,
			Message:    "Error checking setup status",
		})
		return
	}

	msg := "Admin users already exist"
	if needs {
		msg = "First-time setup required"
	}
	writeJSON(w, http.StatusOK, model.SetupCheckResponse{NeedsSetup: needs, Message: msg})
}

// Setup creates the first admin and returns its credentials, once.
// POST /api/setup
func (h *SetupHandler) Setup(w http.ResponseWriter, r *http.Request) {
	res, err := h.boot.Bootstrap(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrSetupAlreadyCompleted) {
			writeError(w, http.StatusBadRequest, model.CodeSetupAlreadyCompleted,
				"Setup already completed. Admin users already exist.")
			return
		}
		h.logger.Error("setup failed", "error", err)
		writeError(w, http.StatusInternalServerError, model.CodeSetupFailed, "Failed to create admin account")
		return
	}

	writeJSON(w, http.StatusOK, model.SetupResponse{
		Success: true,
		Message: "Admin account created successfully",
		Credentials: model.SetupCredentials{
			Username: res.Credentials.Username,
			Password: res.Credentials.Password,
		},
		Info: model.SetupInfo{
			Pattern: service.BootstrapPattern,
			Note:    "Save these credentials securely. You won't be able to see the password again.",
		},
	})
}
