package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Bootstrap account identity. The password follows a fixed, memorable pattern
// (brand + current year + "!"), which is predictable by construction.
// TODO: replace the pattern with random generation once the setup dialog can
// display arbitrary passwords.
const (
	BootstrapUsername  = "mkrentals"
	BootstrapFullName  = "MK Rentals Admin"
	bootstrapBrand     = "MKRentals"
	BootstrapPattern   = "Business name + Current year + !"
	passwordSymbolsSet = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

// Credentials is a plaintext username/password pair.
type Credentials struct {
	Username string
	Password string
}

// GenerateBootstrapCredentials returns the first-admin credentials for the
// year of now.
func GenerateBootstrapCredentials(now time.Time) Credentials {
	return Credentials{
		Username: BootstrapUsername,
		Password: fmt.Sprintf("%s%d!", bootstrapBrand, now.Year()),
	}
}

// PasswordPolicy is a strength policy: a minimum length plus a threshold on
// how many of the five checks (length, upper, lower, digit, symbol) pass.
type PasswordPolicy struct {
	MinLength int
	MinScore  int
}

// DefaultPasswordPolicy requires 12 characters and four of five checks.
var DefaultPasswordPolicy = PasswordPolicy{MinLength: 12, MinScore: 4}

// PasswordStrength is the outcome of evaluating a password against a policy.
type PasswordStrength struct {
	MinLength bool
	HasUpper  bool
	HasLower  bool
	HasDigit  bool
	HasSymbol bool
	Score     int
	Level     string // weak, medium, strong
	Valid     bool
}

// Evaluate scores password against the policy.
func (p PasswordPolicy) Evaluate(password string) PasswordStrength {
	st := PasswordStrength{
		MinLength: len([]rune(password)) >= p.MinLength,
		HasSymbol: strings.ContainsAny(password, passwordSymbolsSet),
	}
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			st.HasUpper = true
		case unicode.IsLower(r):
			st.HasLower = true
		case unicode.IsDigit(r):
			st.HasDigit = true
		}
	}

	for _, ok := range []bool{st.MinLength, st.HasUpper, st.HasLower, st.HasDigit, st.HasSymbol} {
		if ok {
			st.Score++
		}
	}

	switch {
	case st.Score >= 4:
		st.Level = "strong"
	case st.Score >= 3:
		st.Level = "medium"
	default:
		st.Level = "weak"
	}
	st.Valid = st.Score >= p.MinScore
	return st
}
