// filepath: internal/services/auth/token_service.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"intakehub/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	issuer       = "intakehub"
	adminSubject = "admin"
)

var (
	ErrNoAdminPassword    = errors.New("no admin password configured")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// adminClaims defines the claims of the short-lived admin token.
type adminClaims struct {
	jwt.RegisteredClaims
}

// Compile-time check to ensure tokenService implements the TokenService interface.
var _ TokenService = (*tokenService)(nil)

// tokenService implements the TokenService interface.
type tokenService struct {
	cfg *config.Config
	now func() time.Time
}

// NewTokenService creates a new instance of the tokenService.
func NewTokenService(cfg *config.Config) TokenService {
	return &tokenService{cfg: cfg, now: time.Now}
}

func (s *tokenService) IssueAdminToken(password string) (string, time.Time, error) {
	if s.cfg.Auth.AdminPasswordHash == "" {
		return "", time.Time{}, ErrNoAdminPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Auth.AdminPasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	expiry := now.Add(time.Minute * time.Duration(s.cfg.Auth.AccessDurationMin))
	claims := &adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   adminSubject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiry, nil
}

// Authorize verifies the signature, expiry and issuer of an admin token.
func (s *tokenService) Authorize(tokenString string) (Capability, error) {
	claims := &adminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Capability{}, fmt.Errorf("%w: %v", ErrInvalidToken, err) // Handles expired tokens as well
	}
	if !token.Valid || claims.Subject != adminSubject {
		return Capability{}, ErrInvalidToken
	}

	return Capability{subject: claims.Subject, expires: claims.ExpiresAt.Time}, nil
}
