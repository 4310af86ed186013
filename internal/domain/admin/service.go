package admin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/1990jr/mindelo-lausanne-time-bridge/pkg/errors"
)

// RoleAdmin is the only role accepted by the admin API.
const RoleAdmin = "admin"

// Config holds signing settings for admin tokens.
type Config struct {
	Secret string
	Issuer string
}

// Claims is the validated subset of an admin token.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Authenticator issues and validates HS256 admin tokens.
type Authenticator interface {
	Issue(subject string, ttl time.Duration) (string, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
	Enabled() bool
}

type authenticator struct {
	cfg Config
	now func() time.Time
}

// NewAuthenticator constructs the admin authenticator. With an empty secret
// every token is rejected.
func NewAuthenticator(cfg Config) Authenticator {
	return &authenticator{cfg: cfg, now: time.Now}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

func (a *authenticator) Enabled() bool {
	return strings.TrimSpace(a.cfg.Secret) != ""
}

func (a *authenticator) Issue(subject string, ttl time.Duration) (string, error) {
	if !a.Enabled() {
		return "", apperrors.Wrap("admin_disabled", "admin secret is not configured", nil)
	}
	if strings.TrimSpace(subject) == "" {
		return "", apperrors.Wrap("invalid_input", "subject cannot be empty", nil)
	}
	now := a.now()
	claims := tokenClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.cfg.Issuer,
			Subject:   subject,
			ID:        newTokenID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap("admin_error", "failed to sign token", err)
	}
	return signed, nil
}

func (a *authenticator) ValidateToken(_ context.Context, token string) (Claims, error) {
	if !a.Enabled() {
		return Claims{}, apperrors.Wrap("invalid_token", "admin api is disabled", nil)
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}
	if a.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.cfg.Issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(a.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return Claims{}, apperrors.Wrap("invalid_token", "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap("invalid_token", "token invalid", nil)
	}
	if claims.Role != RoleAdmin {
		return Claims{}, apperrors.Wrap("invalid_token", "token lacks admin role", nil)
	}
	return Claims{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func newTokenID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
