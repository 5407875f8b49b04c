package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

func (s *testServer) counts(dimension string) map[string]int64 {
	s.t.Helper()
	today := time.Now().UTC().Format(entity.DateLayout)
	daily, err := s.repos.Analytics.Range(context.Background(), dimension, []string{today})
	require.NoError(s.t, err)
	if daily[today] == nil {
		return map[string]int64{}
	}
	return daily[today]
}

func TestPages_StoredRedirect(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	w := s.do(http.MethodPut, "/api/admin/redirects", map[string]interface{}{
		"source": "/Old-Page/", "destination": "/en", "permanent": true,
	}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "/old-page", parseJSONResponse(t, w)["source"])

	w = s.do(http.MethodGet, "/old-page", nil, "")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/en", w.Header().Get("Location"))

	// Обратное перенаправление создало бы петлю
	w = s.do(http.MethodPut, "/api/admin/redirects", map[string]interface{}{
		"source": "/en", "destination": "/old-page",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/admin/redirects", map[string]interface{}{
		"source": "/api/contact", "destination": "/en",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPages_LocalePrefix(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		headers  []string
		location string
	}{
		{name: "root default", path: "/", location: "/en"},
		{name: "accept-language", path: "/about", headers: []string{"Accept-Language", "fr-CA,fr;q=0.9,en;q=0.5"}, location: "/fr/about"},
		{name: "cookie wins", path: "/about?ref=ad", headers: []string{"Accept-Language", "fr", "Cookie", "NEXT_LOCALE=ru"}, location: "/ru/about?ref=ad"},
		{name: "unsupported language", path: "/about", headers: []string{"Accept-Language", "de-DE"}, location: "/en/about"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodGet, tt.path, nil, "", tt.headers...)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestPages_ServeAndTrack(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/fr/about", nil, "", "User-Agent", "Mozilla/5.0 (Macintosh)")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "à propos")

	w = s.do(http.MethodGet, "/en", nil, "", "User-Agent", "Mozilla/5.0 (Macintosh)")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "home")

	w = s.do(http.MethodGet, "/fr/about", nil, "", "User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1)")
	require.Equal(t, http.StatusOK, w.Code)

	pages := s.counts(entity.AnalyticsPageViews)
	assert.Equal(t, int64(1), pages["/fr/about"])
	assert.Equal(t, int64(1), pages["/en"])
	assert.Equal(t, int64(1), s.counts(entity.AnalyticsBots)["googlebot"])
}

func TestPages_AssetsAndMisses(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/favicon.ico", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "icon", w.Body.String())
	assert.Empty(t, s.counts(entity.AnalyticsPageViews))

	w = s.do(http.MethodGet, "/fr/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/fr/../../etc/passwd", nil, "")
	assert.NotEqual(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", parseJSONResponse(t, w)["error"])

	w = s.do(http.MethodPost, "/fr/about", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Empty(t, s.counts(entity.AnalyticsPageViews))
}

func TestPages_TrackBeacon(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/analytics/track", map[string]string{"path": "/ES/Servicios/"}, "")
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	assert.Equal(t, int64(1), s.counts(entity.AnalyticsPageViews)["/es/servicios"])
}
