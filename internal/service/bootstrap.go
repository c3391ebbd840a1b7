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

// BootstrapResult is returned once, to the single caller whose bootstrap
// created the first admin. It is the only holder of the plaintext password.
type BootstrapResult struct {
	Credentials Credentials
	Admin       *model.Admin
}

// BootstrapCoordinator creates the first admin account when none exists.
//
// The count check is only a fast path. Two callers can both see zero admins;
// the unique username constraint in the store decides which create wins, and
// the loser is reported as ErrSetupAlreadyCompleted. Several instances may
// share one store, so there is no in-process lock.
type BootstrapCoordinator struct {
	store    CredentialStore
	hasher   PasswordHasher
	policy   PasswordPolicy
	generate func(time.Time) Credentials
	now      func() time.Time
	logger   *slog.Logger
}

// BootstrapOption configures a BootstrapCoordinator.
type BootstrapOption func(*BootstrapCoordinator)

// WithGenerator replaces the credential generator.
func WithGenerator(gen func(time.Time) Credentials) BootstrapOption {
	return func(b *BootstrapCoordinator) {
		b.generate = gen
	}
}

// WithPolicy replaces the password strength policy.
func WithPolicy(p PasswordPolicy) BootstrapOption {
	return func(b *BootstrapCoordinator) {
		b.policy = p
	}
}

// WithBootstrapClock overrides the time source used to generate credentials.
func WithBootstrapClock(now func() time.Time) BootstrapOption {
	return func(b *BootstrapCoordinator) {
		b.now = now
	}
}

// NewBootstrapCoordinator creates a BootstrapCoordinator using the default
// credential generator and password policy.
func NewBootstrapCoordinator(store CredentialStore, hasher PasswordHasher, logger *slog.Logger, opts ...BootstrapOption) *BootstrapCoordinator {
	b := &BootstrapCoordinator{
		store:    store,
		hasher:   hasher,
		policy:   DefaultPasswordPolicy,
		generate: GenerateBootstrapCredentials,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "bootstrap")),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NeedsSetup reports whether no admin account exists yet. It is evaluated
// against the store on every call.
func (b *BootstrapCoordinator) NeedsSetup(ctx context.Context) (bool, error) {
	n, err := b.store.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Bootstrap creates the first admin and returns its plaintext credentials.
// It returns ErrSetupAlreadyCompleted when any admin exists or a concurrent
// bootstrap won the race, and ErrConfiguration when the generated password
// fails the strength policy.
func (b *BootstrapCoordinator) Bootstrap(ctx context.Context) (*BootstrapResult, error) {
	needs, err := b.NeedsSetup(ctx)
	if err != nil {
		return nil, fmt.Errorf("check existing admins: %w", err)
	}
	if !needs {
		return nil, ErrSetupAlreadyCompleted
	}

	creds := b.generate(b.now())
	if st := b.policy.Evaluate(creds.Password); !st.Valid {
		return nil, fmt.Errorf("%w: generated password fails strength policy (score %d, need %d)",
			ErrConfiguration, st.Score, b.policy.MinScore)
	}

	hash, err := b.hasher.Hash(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("hash generated password: %w", err)
	}

	admin := &model.Admin{
		Username:     creds.Username,
		PasswordHash: hash,
		FullName:     BootstrapFullName,
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := b.store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, config.ErrDuplicateUsername) {
			b.logger.Info("bootstrap lost race to a concurrent setup")
			return nil, ErrSetupAlreadyCompleted
		}
		return nil, fmt.Errorf("create first admin: %w", err)
	}

	b.logger.Info("first admin created", "admin_id", admin.ID, "role", admin.Role)
	return &BootstrapResult{Credentials: creds, Admin: admin}, nil
}
