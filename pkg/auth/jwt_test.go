package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService(RoleClient, "client-secret", time.Hour)
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateToken("c1", "owner@example.com", "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "c1", claims.Subject)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, RoleClient, claims.Role)
}

func TestJWTService_RejectsOtherRoleSecret(t *testing.T) {
	admin, err := NewJWTService(RoleAdmin, "admin-secret", time.Hour)
	require.NoError(t, err)
	client, err := NewJWTService(RoleClient, "client-secret", time.Hour)
	require.NoError(t, err)

	token, _, err := admin.GenerateToken("admin@clinic", "admin@clinic", "sid")
	require.NoError(t, err)

	_, err = client.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// Тот же секрет, но другая роль
	sameSecret, err := NewJWTService(RoleClient, "admin-secret", time.Hour)
	require.NoError(t, err)
	_, err = sameSecret.ParseToken(token)
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestJWTService_Expired(t *testing.T) {
	svc, err := NewJWTService(RoleAdmin, "admin-secret", time.Hour)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateToken("a", "a@clinic", "sid")
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_RejectsOtherAlgorithm(t *testing.T) {
	svc, err := NewJWTService(RoleAdmin, "admin-secret", time.Hour)
	require.NoError(t, err)

	claims := &SessionClaims{
		Role:      RoleAdmin,
		SessionID: "sid",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a",
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("admin-secret"))
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestNewJWTService_Validation(t *testing.T) {
	_, err := NewJWTService(RoleAdmin, "", time.Hour)
	assert.Error(t, err)
	_, err = NewJWTService(RoleAdmin, "x", 0)
	assert.Error(t, err)
}
