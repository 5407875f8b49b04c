package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/metrics"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
	redisrepo "github.com/199-biotechnologies/continuum-clinic-sub000/internal/repository/redis"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth/manager"
)

const (
	testAdminEmail    = "admin@clinic.example"
	testAdminPassword = "admin-password"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeSender запоминает письма вместо отправки через Resend
type fakeSender struct {
	mu       sync.Mutex
	messages []*service.EmailMessage
	err      error
}

func (f *fakeSender) Send(ctx context.Context, msg *service.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeSender) sent() []*service.EmailMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*service.EmailMessage(nil), f.messages...)
}

// testServer - весь HTTP-стек поверх miniredis
type testServer struct {
	t         *testing.T
	router    *gin.Engine
	mr        *miniredis.Miniredis
	repos     *redisrepo.Repositories
	sender    *fakeSender
	staticDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewUniversalClient(&goredis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { rdb.Close() })

	repos, err := redisrepo.NewRepositories(rdb)
	require.NoError(t, err)

	adminJWT, err := auth.NewJWTService(auth.RoleAdmin, "test-admin-secret", time.Hour)
	require.NoError(t, err)
	clientJWT, err := auth.NewJWTService(auth.RoleClient, "test-client-secret", time.Hour)
	require.NoError(t, err)
	adminTokens, err := manager.NewTokenManager(adminJWT, repos.Sessions)
	require.NoError(t, err)
	clientTokens, err := manager.NewTokenManager(clientJWT, repos.Sessions)
	require.NoError(t, err)

	m := metrics.New()
	runner := service.InlineRunner{}
	sender := &fakeSender{}
	mailer := service.NewMailer(sender, "clinic@example.com", "https://clinic.example", m)

	analyticsService := service.NewAnalyticsService(repos.Analytics, runner, m, 10, 366)
	onboardingService := service.NewOnboardingService(repos.Onboarding, repos.Pets)
	consentService := service.NewConsentService(repos.Consents, repos.Pets, onboardingService, m)
	appointmentService := service.NewAppointmentService(repos.Appointments, repos.Pets, mailer, analyticsService, onboardingService, runner, m)
	contactService := service.NewContactService(repos.Contacts, mailer, analyticsService, m)
	clientService := service.NewClientService(repos.Clients, repos.Pets, clientTokens, mailer, runner)
	petService := service.NewPetService(repos.Pets, repos.Clients, onboardingService)
	postService := service.NewPostService(repos.Posts, runner)
	redirectService := service.NewRedirectService(repos.Redirects, runner)
	seoService := service.NewSEOService(repos.SEO)
	authService, err := service.NewAuthService(repos.Admins, repos.Clients, adminTokens, clientTokens)
	require.NoError(t, err)
	require.NoError(t, authService.SeedAdmin(context.Background(), testAdminEmail, testAdminPassword, "Admin"))

	staticDir := t.TempDir()
	writeStatic(t, staticDir, "en/index.html", "<h1>home</h1>")
	writeStatic(t, staticDir, "fr/about.html", "<h1>à propos</h1>")
	writeStatic(t, staticDir, "favicon.ico", "icon")

	h := &Handlers{
		Auth:         NewAuthHandler(authService, clientService),
		Clients:      NewClientHandler(clientService, petService, consentService, onboardingService),
		Pets:         NewPetHandler(petService, appointmentService),
		Appointments: NewAppointmentHandler(appointmentService),
		Contacts:     NewContactHandler(contactService),
		Consents:     NewConsentHandler(consentService),
		Onboarding:   NewOnboardingHandler(onboardingService),
		Analytics:    NewAnalyticsHandler(analyticsService),
		Content:      NewContentHandler(postService, redirectService, seoService),
		Maintenance:  NewMaintenanceHandler(repos.Reconciler),
		Pages:        NewPageHandler(redirectService, analyticsService, staticDir),
	}

	router := gin.New()
	RegisterRoutes(router, h, middleware.NewAuthMiddleware(adminTokens, clientTokens), middleware.NewRateLimiter(rdb))

	return &testServer{t: t, router: router, mr: mr, repos: repos, sender: sender, staticDir: staticDir}
}

func writeStatic(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// do выполняет запрос; token передаётся как Bearer
func (s *testServer) do(method, path string, body interface{}, token string, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(path, email, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, path, map[string]string{"email": email, "password": password}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	resp := parseJSONResponse(s.t, w)
	token, _ := resp["token"].(string)
	require.NotEmpty(s.t, token)
	return token
}

func (s *testServer) adminToken() string {
	return s.login("/api/admin/auth/login", testAdminEmail, testAdminPassword)
}

// createClient создаёт клиента через админку и возвращает его id
func (s *testServer) createClient(adminToken, email, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/admin/clients", map[string]string{
		"email":      email,
		"first_name": "Jane",
		"last_name":  "Doe",
		"password":   password,
	}, adminToken)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	id, _ := parseJSONResponse(s.t, w)["id"].(string)
	require.NotEmpty(s.t, id)
	return id
}

// createOwnPet создаёт питомца из портала и возвращает его id
func (s *testServer) createOwnPet(clientToken, name string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/portal/pets", map[string]string{"name": name, "species": "dog"}, clientToken)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	id, _ := parseJSONResponse(s.t, w)["id"].(string)
	require.NotEmpty(s.t, id)
	return id
}

// parseJSONResponse парсит JSON-объект из ответа
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// parseJSONList парсит JSON-массив из ответа
func parseJSONList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var resp []interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be a JSON array: %s", w.Body.String())
	return resp
}
