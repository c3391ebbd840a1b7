package model

// Stable machine-readable error codes returned in ErrorResponse.Code. UI code
// branches on these, so they must not change.
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeSetupAlreadyCompleted = "SETUP_ALREADY_COMPLETED"
	CodeSetupFailed           = "SETUP_FAILED"
	CodeRateLimited           = "RATE_LIMITED"
	CodeInternalError         = "INTERNAL_ERROR"
)

// ErrorResponse is the standard envelope for error responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LoginRequest is the expected payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the payload of a successful login. The session token
// itself travels only in the cookie.
type LoginResponse struct {
	Success bool         `json:"success"`
	Admin   AdminSummary `json:"admin"`
}

// MeResponse describes the admin behind the current session.
type MeResponse struct {
	Admin SessionAdmin `json:"admin"`
}

// SessionAdmin is the identity recovered from a verified session token.
type SessionAdmin struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	FullName string `json:"full_name"`
}

// SetupCheckResponse reports whether the first-run bootstrap is available.
type SetupCheckResponse struct {
	NeedsSetup bool   `json:"needsSetup"`
	Message    string `json:"message,omitempty"`
}

// SetupResponse carries the generated first-admin credentials. It is the only
// place the plaintext password ever leaves the process.
type SetupResponse struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message"`
	Credentials SetupCredentials `json:"credentials"`
	Info        SetupInfo        `json:"info"`
}

// SetupCredentials is the generated username/password pair.
type SetupCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SetupInfo explains the generated credentials to the operator.
type SetupInfo struct {
	Pattern string `json:"pattern"`
	Note    string `json:"note"`
}
