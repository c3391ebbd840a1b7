package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkrentals/backoffice/internal/config"
	"github.com/mkrentals/backoffice/internal/model"
)

func newTestBootstrap(t *testing.T, opts ...BootstrapOption) (*BootstrapCoordinator, *config.Store) {
	t.Helper()
	store := newTestStore(t)
	return NewBootstrapCoordinator(store, NewBcryptHasher(bcrypt.MinCost), testLogger(), opts...), store
}

func TestBootstrapCreatesFirstAdmin(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	boot, store := newTestBootstrap(t, WithBootstrapClock(clock))
	ctx := context.Background()

	needs, err := boot.NeedsSetup(ctx)
	if err != nil {
		t.Fatalf("NeedsSetup: %v", err)
	}
	if !needs {
		t.Fatal("empty store should need setup")
	}

	res, err := boot.Bootstrap(ctx)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if res.Credentials.Username != "mkrentals" || res.Credentials.Password != "MKRentals2026!" {
		t.Errorf("credentials = %+v", res.Credentials)
	}
	if res.Admin.Role != model.RoleSuperAdmin || !res.Admin.IsActive {
		t.Errorf("admin = %+v, want active super_admin", res.Admin)
	}

	stored, err := store.FindByUsername(ctx, "mkrentals")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if stored.PasswordHash == res.Credentials.Password {
		t.Error("password must be stored hashed")
	}
	if !NewBcryptHasher(bcrypt.MinCost).Verify(res.Credentials.Password, stored.PasswordHash) {
		t.Error("stored hash does not match the returned password")
	}

	needs, err = boot.NeedsSetup(ctx)
	if err != nil {
		t.Fatalf("NeedsSetup: %v", err)
	}
	if needs {
		t.Error("setup should no longer be needed")
	}

	if _, err := boot.Bootstrap(ctx); !errors.Is(err, ErrSetupAlreadyCompleted) {
		t.Errorf("second Bootstrap: got %v, want ErrSetupAlreadyCompleted", err)
	}
}

func TestBootstrapSkippedWhenAnyAdminExists(t *testing.T) {
	boot, store := newTestBootstrap(t)
	seedAdmin(t, store, "someone", "existing-password", false)

	if _, err := boot.Bootstrap(context.Background()); !errors.Is(err, ErrSetupAlreadyCompleted) {
		t.Errorf("got %v, want ErrSetupAlreadyCompleted", err)
	}
}

func TestBootstrapConcurrent(t *testing.T) {
	boot, store := newTestBootstrap(t)
	ctx := context.Background()

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		completed int
		other     []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := boot.Bootstrap(ctx)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSetupAlreadyCompleted):
				completed++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected errors: %v", other)
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if completed != callers-1 {
		t.Errorf("already-completed = %d, want %d", completed, callers-1)
	}

	n, err := store.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if n != 1 {
		t.Errorf("admin count = %d, want 1", n)
	}
}

// racingStore reports an empty store but rejects the create, as if another
// instance inserted the first admin between the count and the insert.
type racingStore struct {
	CredentialStore
}

func (racingStore) CountAdmins(context.Context) (int, error) { return 0, nil }

func (racingStore) CreateAdmin(context.Context, *model.Admin) error {
	return config.ErrDuplicateUsername
}

func TestBootstrapLostRace(t *testing.T) {
	boot := NewBootstrapCoordinator(racingStore{}, NewBcryptHasher(bcrypt.MinCost), testLogger())
	if _, err := boot.Bootstrap(context.Background()); !errors.Is(err, ErrSetupAlreadyCompleted) {
		t.Errorf("got %v, want ErrSetupAlreadyCompleted", err)
	}
}

func TestBootstrapWeakGeneratedPassword(t *testing.T) {
	weak := func(time.Time) Credentials {
		return Credentials{Username: "mkrentals", Password: "weak"}
	}
	boot, store := newTestBootstrap(t, WithGenerator(weak))

	_, err := boot.Bootstrap(context.Background())
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("got %v, want ErrConfiguration", err)
	}
	n, err := store.CountAdmins(context.Background())
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if n != 0 {
		t.Errorf("admin count = %d, want 0 after a rejected bootstrap", n)
	}
}

func TestBootstrapCustomPolicy(t *testing.T) {
	boot, _ := newTestBootstrap(t, WithPolicy(PasswordPolicy{MinLength: 64, MinScore: 5}))
	if _, err := boot.Bootstrap(context.Background()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("got %v, want ErrConfiguration", err)
	}
}
