package service

import "errors"

var (
	// ErrInvalidCredentials covers every login failure caused by the caller:
	// unknown username, inactive account, or wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthorized is returned by RequireAuth when the request carries no
	// valid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired and ErrTokenInvalid are returned by TokenService.Verify.
	// SessionManager collapses both into "no session".
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")

	// ErrConfiguration signals a deployment or code defect: a signing secret
	// that is too short, or a generated password that fails policy.
	ErrConfiguration = errors.New("configuration error")

	// ErrSetupAlreadyCompleted is returned by the bootstrap flow once any
	// admin account exists, including when a concurrent bootstrap won.
	ErrSetupAlreadyCompleted = errors.New("setup already completed")
)
