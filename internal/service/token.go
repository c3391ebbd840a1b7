package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkrentals/backoffice/internal/config"
	"github.com/mkrentals/backoffice/internal/model"
)

// TokenTTL is the fixed lifetime of a session token.
const TokenTTL = 7 * 24 * time.Hour

const tokenIssuer = "backoffice"

// Claims is the payload of a session token.
type Claims struct {
	AdminID  string     `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	FullName string     `json:"full_name"`
	jwt.RegisteredClaims
}

// Admin returns the identity carried by the claims.
func (c *Claims) Admin() model.SessionAdmin {
	return model.SessionAdmin{
		ID:       c.AdminID,
		Username: c.Username,
		Role:     c.Role,
		FullName: c.FullName,
	}
}

// TokenService signs and verifies stateless HS256 session tokens. There is no
// revocation list: a token stays valid until it expires.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService. A secret shorter than
// config.MinSecretLength is accepted here but makes every Sign and Verify
// call fail with ErrConfiguration.
func NewTokenService(secret string, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) checkSecret() error {
	if len(s.secret) < config.MinSecretLength {
		return fmt.Errorf("%w: signing secret must be at least %d characters", ErrConfiguration, config.MinSecretLength)
	}
	return nil
}

// Sign issues a token for admin, valid for TokenTTL from now.
func (s *TokenService) Sign(admin model.SessionAdmin) (string, error) {
	if err := s.checkSecret(); err != nil {
		return "", err
	}

	now := s.now()
	claims := Claims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		FullName: admin.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry of tokenStr and returns its claims.
// Failures are ErrTokenExpired, ErrTokenInvalid, or ErrConfiguration.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	if err := s.checkSecret(); err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.AdminID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
