package manager

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisrepo "github.com/199-biotechnologies/continuum-clinic-sub000/internal/repository/redis"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth"
)

func newTestManager(t *testing.T, role auth.Role) *TokenManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewUniversalClient(&goredis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { client.Close() })

	jwtService, err := auth.NewJWTService(role, "secret-"+string(role), time.Hour)
	require.NoError(t, err)
	m, err := NewTokenManager(jwtService, redisrepo.NewSessionRepo(client))
	require.NoError(t, err)
	return m
}

func tokenErrorType(err error) TokenErrorType {
	var te *TokenError
	if errors.As(err, &te) {
		return te.Type
	}
	return ""
}

func TestTokenManager_IssueValidateRevoke(t *testing.T) {
	m := newTestManager(t, auth.RoleClient)
	ctx := context.Background()

	session, err := m.IssueSession(ctx, "c1", "owner@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "c1", claims.Subject)

	require.NoError(t, m.RevokeSession(ctx, session.SessionID))
	_, err = m.ValidateToken(ctx, session.Token)
	assert.Equal(t, TokenRevoked, tokenErrorType(err), "валидная подпись без сессии в Redis не даёт доступа")
}

func TestTokenManager_RevokeAllKeepsCurrent(t *testing.T) {
	m := newTestManager(t, auth.RoleClient)
	ctx := context.Background()

	first, err := m.IssueSession(ctx, "c1", "owner@example.com")
	require.NoError(t, err)
	second, err := m.IssueSession(ctx, "c1", "owner@example.com")
	require.NoError(t, err)

	n, err := m.RevokeAllSessions(ctx, "c1", second.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = m.ValidateToken(ctx, first.Token)
	assert.Error(t, err)
	_, err = m.ValidateToken(ctx, second.Token)
	assert.NoError(t, err)
}

func TestTokenManager_Cookies(t *testing.T) {
	m := newTestManager(t, auth.RoleAdmin)
	assert.Equal(t, AdminTokenCookie, m.CookieName())

	rec := httptest.NewRecorder()
	m.SetTokenCookie(rec, &Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "admin-token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.False(t, cookies[0].Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	token, err := m.GetTokenFromCookie(req)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	_, err = m.GetTokenFromCookie(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, MissingToken, tokenErrorType(err))

	_, err = m.ValidateToken(context.Background(), "")
	assert.Equal(t, MissingToken, tokenErrorType(err))
}
