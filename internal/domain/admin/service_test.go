package admin

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/1990jr/mindelo-lausanne-time-bridge/pkg/errors"
)

func TestAuthenticator_IssueAndValidate(t *testing.T) {
	auth := NewAuthenticator(Config{Secret: "test-secret", Issuer: "mindelo-insight"})

	token, err := auth.Issue("ops", time.Hour)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "ops", claims.Subject)
	require.Equal(t, RoleAdmin, claims.Role)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestAuthenticator_Rejects(t *testing.T) {
	auth := NewAuthenticator(Config{Secret: "test-secret", Issuer: "mindelo-insight"})
	ctx := context.Background()

	expired, err := auth.Issue("ops", -time.Minute)
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, expired)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	other, err := NewAuthenticator(Config{Secret: "other", Issuer: "mindelo-insight"}).Issue("ops", time.Hour)
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, other)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	wrongIssuer, err := NewAuthenticator(Config{Secret: "test-secret", Issuer: "someone-else"}).Issue("ops", time.Hour)
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, wrongIssuer)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "mindelo-insight",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, noRole)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func TestAuthenticator_DisabledWithoutSecret(t *testing.T) {
	auth := NewAuthenticator(Config{})
	require.False(t, auth.Enabled())
	_, err := auth.Issue("ops", time.Hour)
	require.Error(t, err)
	_, err = auth.ValidateToken(context.Background(), "anything")
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}
