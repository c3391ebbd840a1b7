package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkrentals/backoffice/internal/config"
	"github.com/mkrentals/backoffice/internal/model"
)

// CredentialStore is the persistence boundary for admin accounts.
// *config.Store satisfies it.
type CredentialStore interface {
	// FindByUsername returns only active accounts; anything else is
	// config.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	// CreateAdmin fails with config.ErrDuplicateUsername on a username
	// collision.
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	CountAdmins(ctx context.Context) (int, error)
}

// AuthService verifies admin credentials and issues session tokens.
type AuthService struct {
	store     CredentialStore
	hasher    PasswordHasher
	tokens    *TokenService
	logger    *slog.Logger
	dummyHash string
}

// NewAuthService creates an AuthService.
func NewAuthService(store CredentialStore, hasher PasswordHasher, tokens *TokenService, logger *slog.Logger) *AuthService {
	s := &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With(slog.String("component", "auth")),
	}
	// Unknown usernames still pay for one hash comparison so response
	// timing does not reveal which usernames exist.
	if h, err := hasher.Hash("backoffice-timing-equalizer"); err == nil {
		s.dummyHash = h
	}
	return s
}

// Login authenticates username/password and returns the admin and a signed
// session token. Every caller-caused failure is ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Admin, string, error) {
	admin, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.logger.Info("login rejected")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("look up admin: %w", err)
	}

	if !s.hasher.Verify(password, admin.PasswordHash) {
		s.logger.Info("login rejected", "admin_id", admin.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(model.SessionAdmin{
		ID:       admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		FullName: admin.FullName,
	})
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	// Best effort: a failed timestamp update must not fail the login.
	now := s.tokens.now().UTC()
	if err := s.store.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		s.logger.Warn("failed to record last login", "admin_id", admin.ID, "error", err)
	} else {
		admin.LastLoginAt = &now
	}

	s.logger.Info("login succeeded", "admin_id", admin.ID, "role", admin.Role)
	return admin, token, nil
}
