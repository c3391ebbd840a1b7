package handler

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/mkrentals/backoffice/internal/config"
	"github.com/mkrentals/backoffice/internal/model"
)

func TestSetupCheck(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/setup/check", nil)
	assertStatus(t, rr, http.StatusOK)
	var body model.SetupCheckResponse
	decodeJSON(t, rr, &body)
	if !body.NeedsSetup {
		t.Error("empty store should need setup")
	}

	env.seedAdmin(t, "alice")

	rr = env.do(t, "GET", "/api/setup/check", nil)
	assertStatus(t, rr, http.StatusOK)
	body = model.SetupCheckResponse{}
	decodeJSON(t, rr, &body)
	if body.NeedsSetup {
		t.Error("setup should not be needed once an admin exists")
	}
}

func TestSetupCheckStoreFailureReportsFalse(t *testing.T) {
	store, err := config.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	env := newTestEnvWithStore(t, store, brokenStore{})

	rr := env.do(t, "GET", "/api/setup/check", nil)
	assertStatus(t, rr, http.StatusOK)
	var body model.SetupCheckResponse
	decodeJSON(t, rr, &body)
	if body.NeedsSetup {
		t.Error("a failed check must never report needsSetup=true")
	}
}

func TestSetupFlow(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/setup", nil)
	assertStatus(t, rr, http.StatusOK)

	var body model.SetupResponse
	decodeJSON(t, rr, &body)
	if !body.Success {
		t.Error("expected success=true")
	}
	if body.Credentials.Username != "mkrentals" {
		t.Errorf("username = %q, want mkrentals", body.Credentials.Username)
	}
	if want := fmt.Sprintf("MKRentals%d!", time.Now().Year()); body.Credentials.Password != want {
		t.Errorf("password = %q, want %q", body.Credentials.Password, want)
	}
	if body.Info.Pattern == "" || body.Info.Note == "" {
		t.Errorf("expected info block, got %+v", body.Info)
	}

	// The generated credentials log in.
	login := env.do(t, "POST", "/api/auth/login", toJSON(t, model.LoginRequest{
		Username: body.Credentials.Username,
		Password: body.Credentials.Password,
	}))
	assertStatus(t, login, http.StatusOK)

	// A second setup is refused with a stable code.
	rr = env.do(t, "POST", "/api/setup", nil)
	assertStatus(t, rr, http.StatusBadRequest)
	assertErrorCode(t, rr, model.CodeSetupAlreadyCompleted)
}

func TestSetupConcurrentRequests(t *testing.T) {
	env := newTestEnv(t)

	const callers = 6
	codes := make([]int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = env.do(t, "POST", "/api/setup", nil).Code
		}(i)
	}
	wg.Wait()

	ok, refused := 0, 0
	for _, c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusBadRequest:
			refused++
		default:
			t.Errorf("unexpected status %d", c)
		}
	}
	if ok != 1 || refused != callers-1 {
		t.Errorf("got %d successes and %d refusals, want 1 and %d", ok, refused, callers-1)
	}
}

func TestSetupStoreFailure(t *testing.T) {
	store, err := config.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	env := newTestEnvWithStore(t, store, brokenStore{})

	rr := env.do(t, "POST", "/api/setup", nil)
	assertStatus(t, rr, http.StatusInternalServerError)
	assertErrorCode(t, rr, model.CodeSetupFailed)
}
