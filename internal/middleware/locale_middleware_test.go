package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNegotiateLocale(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		header   string
		expected string
	}{
		{"cookie wins", "es", "fr-FR,fr;q=0.9", "es"},
		{"unsupported cookie ignored", "de", "ru-RU,ru;q=0.9,en;q=0.5", "ru"},
		{"regional variant", "", "fr-CA", "fr"},
		{"unsupported language", "", "de-DE", "en"},
		{"no hints", "", "", "en"},
		{"garbage header", "", ";;;", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LocaleCookie, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			assert.Equal(t, tt.expected, NegotiateLocale(req))
		})
	}
}

func TestLocale_PathPrefixWins(t *testing.T) {
	r := gin.New()
	r.Use(Locale())
	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusOK, LocaleFromContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ar/about", nil)
	req.AddCookie(&http.Cookie{Name: LocaleCookie, Value: "es"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "ar", w.Body.String())
}

func TestExtractIDParam(t *testing.T) {
	r := gin.New()
	r.GET("/pets/:id", ExtractIDParam("id", "pet_id"), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("pet_id"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pets/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := "0b7f6a52-1c2d-4e3f-8a9b-1234567890ab"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pets/"+id, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, w.Body.String())
}
