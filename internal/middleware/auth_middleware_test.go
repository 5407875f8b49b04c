package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisrepo "github.com/199-biotechnologies/continuum-clinic-sub000/internal/repository/redis"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth/manager"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	mw     *AuthMiddleware
	admin  *manager.TokenManager
	client *manager.TokenManager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewUniversalClient(&goredis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { rdb.Close() })
	sessions := redisrepo.NewSessionRepo(rdb)

	adminJWT, err := auth.NewJWTService(auth.RoleAdmin, "admin-secret", time.Hour)
	require.NoError(t, err)
	clientJWT, err := auth.NewJWTService(auth.RoleClient, "client-secret", time.Hour)
	require.NoError(t, err)

	admin, err := manager.NewTokenManager(adminJWT, sessions)
	require.NoError(t, err)
	client, err := manager.NewTokenManager(clientJWT, sessions)
	require.NoError(t, err)

	return &authFixture{mw: NewAuthMiddleware(admin, client), admin: admin, client: client}
}

func (f *authFixture) router() *gin.Engine {
	r := gin.New()
	r.Use(Locale())
	r.GET("/api/admin/ping", f.mw.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": AdminEmail(c)})
	})
	r.GET("/api/portal/ping", f.mw.RequireClient(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"client_id": ClientID(c)})
	})
	r.GET("/portal/pets", f.mw.RequireClient(), func(c *gin.Context) {
		c.String(http.StatusOK, "pets")
	})
	r.POST("/api/appointments", f.mw.OptionalClient(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"client_id": ClientID(c)})
	})
	return r
}

func TestRequireAdmin_CookieAndBearer(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router()
	session, err := f.admin.IssueSession(context.Background(), "admin@clinic.example", "admin@clinic.example")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.AddCookie(&http.Cookie{Name: manager.AdminTokenCookie, Value: session.Token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@clinic.example")

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_RejectsClientToken(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router()
	session, err := f.client.IssueSession(context.Background(), "c1", "owner@example.com")
	require.NoError(t, err)

	// Клиентский токен в cookie админа не проходит: другой секрет подписи
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.AddCookie(&http.Cookie{Name: manager.AdminTokenCookie, Value: session.Token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireClient_RevokedSession(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router()
	ctx := context.Background()
	session, err := f.client.IssueSession(ctx, "c1", "owner@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/portal/ping", nil)
	req.AddCookie(&http.Cookie{Name: manager.ClientTokenCookie, Value: session.Token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"client_id":"c1"`)

	_, err = f.client.RevokeAllSessions(ctx, "c1", "")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireClient_HTMLRedirectsToLogin(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router()

	req := httptest.NewRequest(http.MethodGet, "/portal/pets", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.AddCookie(&http.Cookie{Name: LocaleCookie, Value: "fr"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/fr/portal/login?next=%2Fportal%2Fpets", w.Header().Get("Location"))
}

func TestOptionalClient(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/appointments", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"client_id":""`)

	session, err := f.client.IssueSession(context.Background(), "c9", "owner@example.com")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", nil)
	req.AddCookie(&http.Cookie{Name: manager.ClientTokenCookie, Value: session.Token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"client_id":"c9"`)

	// Мусорный токен не ломает публичный запрос
	req = httptest.NewRequest(http.MethodPost, "/api/appointments", nil)
	req.AddCookie(&http.Cookie{Name: manager.ClientTokenCookie, Value: "garbage"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"client_id":""`)
}
